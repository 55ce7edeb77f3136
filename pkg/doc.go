// Package pkg provides the core libraries for the countymap choropleth
// engine.
//
// # Overview
//
// countymap resolves each record in a dataset to a Kenyan county, scatters
// it to a random point strictly inside that county's polygon, and renders
// the result as a zoomable map. The pkg directory is organized into three
// main areas:
//
//  1. Geometry: [geo] (regions, spatial index, polygon sampling),
//     [project] (geographic to pixel projection), [viewport] (pan/zoom
//     transform state)
//  2. Data: [placement] (record schema, county inference, placement),
//     [pipeline] (load -> place -> render orchestration)
//  3. Infrastructure: [cache], [config], [errors], [observability],
//     [httputil], [buildinfo]
//
// # Architecture
//
// The typical data flow through countymap:
//
//	Boundary GeoJSON + Record JSON
//	         |
//	    [geo] package (regions + spatial index)
//	         |
//	    [placement] package (county inference + in-polygon sampling)
//	         |
//	    [project] + [viewport] (pixel positions, pan/zoom/focus)
//	         |
//	    [render/mapsvg] (SVG / JSON artifacts)
//
// # Quick Start
//
// Place a dataset and render an SVG map:
//
//	import (
//	    "context"
//	    "github.com/openkenya/countymap/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    BoundaryPath: "counties.json",
//	    RecordPath:   "records.json",
//	    Formats:      []string{pipeline.FormatSVG},
//	})
//	// result.Artifacts["svg"] holds the rendered map.
//
// [geo]: github.com/openkenya/countymap/pkg/geo
// [project]: github.com/openkenya/countymap/pkg/project
// [viewport]: github.com/openkenya/countymap/pkg/viewport
// [placement]: github.com/openkenya/countymap/pkg/placement
// [pipeline]: github.com/openkenya/countymap/pkg/pipeline
// [cache]: github.com/openkenya/countymap/pkg/cache
// [config]: github.com/openkenya/countymap/pkg/config
// [errors]: github.com/openkenya/countymap/pkg/errors
// [observability]: github.com/openkenya/countymap/pkg/observability
// [httputil]: github.com/openkenya/countymap/pkg/httputil
// [buildinfo]: github.com/openkenya/countymap/pkg/buildinfo
// [render/mapsvg]: github.com/openkenya/countymap/pkg/render/mapsvg
package pkg
