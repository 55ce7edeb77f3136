package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/openkenya/countymap/pkg/cache"
	"github.com/openkenya/countymap/pkg/config"
	"github.com/openkenya/countymap/pkg/pipeline"
	"github.com/openkenya/countymap/pkg/render/mapsvg"
)

// appName is the application name used for directories and display.
const appName = "countymap"

// pipelineOptions maps a loaded config onto base pipeline options.
// Command flags overlay individual fields afterwards.
func pipelineOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		BoundaryPath:    cfg.Data.Boundaries,
		RecordPath:      cfg.Data.Records,
		Seed:            cfg.Placer.Seed,
		Fallback:        cfg.Placer.FallbackCounty,
		ExcludeResolved: cfg.Placer.ExcludeResolved,
		MarkerRadius:    cfg.Viewport.MarkerRadius,
		StrokeWidth:     cfg.Viewport.StrokeWidth,
		Theme: mapsvg.Theme{
			Land:       cfg.Theme.Land,
			Border:     cfg.Theme.Border,
			Marker:     cfg.Theme.Marker,
			Focus:      cfg.Theme.Focus,
			Background: cfg.Theme.Background,
		},
	}
}

// openCache opens the cache backend selected by the config.
func openCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "file":
		dir, err := cacheDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Redis})
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// cacheDir resolves the cache directory, defaulting to the platform user
// cache dir.
func cacheDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get user cache dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// newRunner builds a pipeline runner with the configured cache backend.
// noCache forces the null cache regardless of config.
func newRunner(ctx context.Context, cfg config.Config, noCache bool, logger *log.Logger) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), nil
	}
	c, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, logger), nil
}

// writeOutput writes data to path, with "" or "-" meaning stdout.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	f, err := openOutput(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// openOutput opens path for writing, creating parent directories.
func openOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
