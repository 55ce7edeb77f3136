package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openkenya/countymap/pkg/cache"
	"github.com/openkenya/countymap/pkg/observability"
	"github.com/openkenya/countymap/pkg/placement"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and the HTTP server use this to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → place → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.BoundaryPath, opts.RecordPath)
	ds, err := Load(ctx, opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, 0, 0, time.Since(loadStart), err)
		return nil, fmt.Errorf("load: %w", err)
	}
	observability.Pipeline().OnLoadComplete(ctx, ds.Index.Len(), len(ds.Records), time.Since(loadStart), nil)
	result.Index = ds.Index
	result.Records = ds.Records
	result.DataHash = ds.Hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RegionCount = ds.Index.Len()
	result.Stats.RecordCount = len(ds.Records)

	r.Logger.Info("loaded datasets",
		"regions", ds.Index.Len(),
		"records", len(ds.Records),
		"duration", result.Stats.LoadTime)

	// Stage 2: Place
	placeStart := time.Now()
	observability.Pipeline().OnPlaceStart(ctx, len(ds.Records))
	placeRes, placeHit, err := r.PlaceWithCacheInfo(ctx, ds, opts)
	if err != nil {
		observability.Pipeline().OnPlaceComplete(ctx, 0, 0, time.Since(placeStart), err)
		return nil, fmt.Errorf("place: %w", err)
	}
	observability.Pipeline().OnPlaceComplete(ctx, placeRes.Placed, placeRes.Dropped, time.Since(placeStart), nil)
	result.Placement = placeRes
	result.Facets = placement.ComputeFacets(ds.Records)
	result.Stats.PlaceTime = time.Since(placeStart)
	result.CacheInfo.PlacementHit = placeHit

	r.Logger.Info("placed records",
		"placed", placeRes.Placed,
		"dropped", placeRes.Dropped,
		"cached", placeHit,
		"duration", result.Stats.PlaceTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, ds, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
		return nil, fmt.Errorf("render: %w", err)
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), nil)
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlaceWithCacheInfo runs the placement stage with caching and returns
// cache hit info. On a hit, cached points are restored onto ds.Records;
// on a miss the placer runs and its result is cached.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, ds *Datasets, opts Options) (placement.Result, bool, error) {
	opts.SetPlaceDefaults()
	r.applyLogger(&opts)

	cacheKey := r.Keyer.PlacementKey(ds.Hash, opts.PlacementKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, ok := applyPlacements(ds, data); ok {
				observability.Cache().OnCacheHit(ctx, "placement")
				return res, true, nil
			}
			// Stale or foreign artifact; recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "placement")

	res := Place(ds, opts)
	if data, err := marshalPlacements(ds, res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPlacement)
		observability.Cache().OnCacheSet(ctx, "placement", len(data))
	}
	return res, false, nil
}

// RenderWithCacheInfo renders artifacts with caching and returns cache
// hit info. Placements must already be assigned to ds.Records.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ds *Datasets, opts Options) (map[string][]byte, bool, error) {
	opts.SetPlaceDefaults()
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Placement identity: input data plus everything that moves points.
	placementHash := cache.Hash(fmt.Appendf(nil, "%s|%d|%s|%t",
		ds.Hash, opts.Seed, opts.Fallback, opts.ExcludeResolved))

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(placementHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ds, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(placementHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
