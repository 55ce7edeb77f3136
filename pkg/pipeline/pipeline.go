// Package pipeline provides the core map-building pipeline for countymap.
//
// This package implements the complete load → place → render pipeline
// shared by the CLI and the HTTP server. Centralizing it here keeps
// placement behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the boundary GeoJSON and the record dataset (in parallel)
//     and build the spatial region index
//  2. Place: resolve each record to a county and scatter it to a point
//     strictly inside that county's polygon
//  3. Render: project placements to pixel space and emit output formats
//     (SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    BoundaryPath: "counties.geojson",
//	    RecordPath:   "records.json",
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openkenya/countymap/pkg/cache"
	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/placement"
	"github.com/openkenya/countymap/pkg/render/mapsvg"
)

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600.0

	// DefaultMargin is the default canvas margin in pixels.
	DefaultMargin = 20.0

	// DefaultSeed is the default random seed for reproducible placements.
	DefaultSeed = uint64(42)

	// DefaultFallback is the region that catches records whose county
	// could not be resolved.
	DefaultFallback = "nairobi"

	// FallbackNone disables the catch-all county; unresolved records are
	// dropped instead.
	FallbackNone = "none"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// Options contains all configuration for the map pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	BoundaryPath string `json:"boundary_path"`
	RecordPath   string `json:"record_path"`

	// Place options
	Seed            uint64 `json:"seed,omitempty"`
	Fallback        string `json:"fallback,omitempty"`
	ExcludeResolved bool   `json:"exclude_resolved,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Year     string   `json:"year,omitempty"`   // "", "all", or a four-digit year
	County   string   `json:"county,omitempty"` // "", "all", or a county name
	Focus    string   `json:"focus,omitempty"`  // county to fit the projection to
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Margin   float64  `json:"margin,omitempty"`
	Tooltips bool     `json:"tooltips,omitempty"`
	Density  float64  `json:"density,omitempty"` // blue-noise fill spacing, 0 = markers

	// MarkerRadius and StrokeWidth override the renderer's base sizes
	// when positive.
	MarkerRadius float64 `json:"marker_radius,omitempty"`
	StrokeWidth  float64 `json:"stroke_width,omitempty"`

	// Runtime options (not serialized)
	Theme  mapsvg.Theme `json:"-"`
	Logger *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Index is the spatial region index built from the boundary dataset.
	Index *geo.Index

	// Records is the full record set, placements assigned.
	Records []*placement.Record

	// Placement summarizes the placement stage.
	Placement placement.Result

	// Facets holds per-year and per-county counts over the full set.
	Facets placement.Facets

	// DataHash is the combined content hash of both input datasets.
	DataHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RegionCount int
	RecordCount int
	LoadTime    time.Duration
	PlaceTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlacementHit bool // whether placements came from cache
	RenderHit    bool // whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetPlaceDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.BoundaryPath == "" {
		return fmt.Errorf("boundary_path is required")
	}
	if o.RecordPath == "" {
		return fmt.Errorf("record_path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetPlaceDefaults sets default values for the placement stage.
func (o *Options) SetPlaceDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Fallback == "" {
		o.Fallback = DefaultFallback
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Theme == (mapsvg.Theme{}) {
		o.Theme = mapsvg.DefaultTheme
	}
}

// PlacementKeyOpts returns cache key options for the placement stage.
func (o *Options) PlacementKeyOpts() cache.PlacementKeyOpts {
	return cache.PlacementKeyOpts{
		Seed:            o.Seed,
		Fallback:        o.Fallback,
		ExcludeResolved: o.ExcludeResolved,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	theme := strings.Join([]string{
		o.Theme.Land, o.Theme.Border, o.Theme.Marker, o.Theme.Focus, o.Theme.Background,
		fmt.Sprintf("r%g", o.MarkerRadius), fmt.Sprintf("s%g", o.StrokeWidth),
		fmt.Sprintf("d%g", o.Density), fmt.Sprintf("t%t", o.Tooltips),
	}, ",")
	return cache.ArtifactKeyOpts{
		Format: format,
		Theme:  theme,
		County: strings.ToLower(strings.TrimSpace(o.County)) + "|" + geo.NormalizeKey(o.Focus),
		Year:   strings.ToLower(strings.TrimSpace(o.Year)),
		Width:  o.Width,
		Height: o.Height,
	}
}
