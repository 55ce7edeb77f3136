// Package config loads countymap configuration from a TOML file.
//
// Everything here has a sensible default: a missing config file is not an
// error, and a partial file only overrides what it names. UI-specific
// knobs (theme, debounce) live here too so the near-identical front-end
// variants are one parameterized engine instead of forks.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/openkenya/countymap/pkg/errors"
)

// Config is the full countymap configuration.
type Config struct {
	Data     Data     `toml:"data"`
	Placer   Placer   `toml:"placer"`
	Viewport Viewport `toml:"viewport"`
	Theme    Theme    `toml:"theme"`
	Cache    Cache    `toml:"cache"`
}

// Data locates the input datasets. The URL fields are the remote sources
// the fetch command pulls from; the path fields are where datasets live
// locally and are what every other command reads.
type Data struct {
	Boundaries    string `toml:"boundaries"`
	Records       string `toml:"records"`
	BoundariesURL string `toml:"boundaries_url"`
	RecordsURL    string `toml:"records_url"`
}

// Placer controls record placement policy.
type Placer struct {
	// FallbackCounty receives records whose county cannot be resolved.
	// Empty means drop them instead.
	FallbackCounty string `toml:"fallback_county"`

	// ExcludeResolved drops records whose case status says the subject
	// was later found alive or is still missing.
	ExcludeResolved bool `toml:"exclude_resolved"`

	// Seed fixes the sampler RNG for reproducible maps; 0 means the
	// pipeline default.
	Seed uint64 `toml:"seed"`
}

// Viewport bounds the pan/zoom gestures and marker scaling.
type Viewport struct {
	KMin         float64 `toml:"k_min"`
	KMax         float64 `toml:"k_max"`
	MarkerRadius float64 `toml:"marker_radius"`
	MinRadius    float64 `toml:"min_radius"`
	MaxRadius    float64 `toml:"max_radius"`
	StrokeWidth  float64 `toml:"stroke_width"`
	MinStroke    float64 `toml:"min_stroke"`
	MaxStroke    float64 `toml:"max_stroke"`
}

// Theme holds the rendering colors and front-end timing knobs that vary
// between deployments.
type Theme struct {
	Land       string `toml:"land"`
	Border     string `toml:"border"`
	Marker     string `toml:"marker"`
	Focus      string `toml:"focus"`
	Background string `toml:"background"`

	// DebounceMS is the resize debounce the front end should apply.
	DebounceMS int `toml:"debounce_ms"`
}

// Cache selects a cache backend.
type Cache struct {
	// Backend is "file", "redis" or "none".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Redis   string `toml:"redis"` // host:port
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Data: Data{
			Boundaries: "data/counties.geojson",
			Records:    "data/records.json",
		},
		Placer: Placer{
			FallbackCounty: "nairobi",
		},
		Viewport: Viewport{
			KMin:         1,
			KMax:         40,
			MarkerRadius: 4,
			MinRadius:    1,
			MaxRadius:    6,
			StrokeWidth:  1.5,
			MinStroke:    0.2,
			MaxStroke:    1.5,
		},
		Theme: Theme{
			Land:       "#e8e6e1",
			Border:     "#8a8577",
			Marker:     "#b3332a",
			Focus:      "#d8d2c4",
			Background: "#f7f6f3",
			DebounceMS: 150,
		},
		Cache: Cache{
			Backend: "file",
			Dir:     "", // resolved to the user cache dir at open time
		},
	}
}

// Load reads a config file and overlays it on the defaults. A missing
// file returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Viewport.KMin <= 0 || c.Viewport.KMax <= c.Viewport.KMin {
		return errors.New(errors.ErrCodeInvalidConfig,
			"viewport zoom bounds must satisfy 0 < k_min < k_max (got %g, %g)",
			c.Viewport.KMin, c.Viewport.KMax)
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
