// Package render groups the map output sinks.
//
// The [mapsvg] subpackage renders a placed dataset as an SVG document
// (county polygons as paths, records as markers, optional focus
// transform) and as a JSON array of placed positions for programmatic
// consumers.
//
// [mapsvg]: github.com/openkenya/countymap/pkg/render/mapsvg
package render
