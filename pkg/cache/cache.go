// Package cache provides pluggable byte caching for the countymap
// pipeline.
//
// Three backends are provided:
//   - FileCache: file-based, for CLI runs
//   - RedisCache: shared cache for the HTTP server
//   - NullCache: caching disabled
//
// Cache keys are produced by a Keyer so that every stage of the pipeline
// (dataset load, placement, rendered artifacts) keys its results the same
// way regardless of entry point.
package cache

import (
	"context"
	"time"
)

// TTLs per cached artifact class. Boundary data effectively never changes;
// placements and artifacts are cheap to recompute and keyed by content, so
// modest TTLs keep the cache from accumulating stale seeds.
const (
	TTLDataset   = 30 * 24 * time.Hour
	TTLPlacement = 7 * 24 * time.Hour
	TTLArtifact  = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves data for key. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key with a TTL (0 means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// PlacementKeyOpts captures everything that changes placement output for
// the same input datasets.
type PlacementKeyOpts struct {
	Seed            uint64 `json:"seed"`
	Fallback        string `json:"fallback"`
	ExcludeResolved bool   `json:"exclude_resolved"`
}

// ArtifactKeyOpts captures everything that changes a rendered artifact
// for the same placement.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Theme  string  `json:"theme"`
	County string  `json:"county"`
	Year   string  `json:"year"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// DatasetKey keys a loaded dataset by kind ("boundaries", "records")
	// and source identity (path or URL plus modification hint).
	DatasetKey(kind, source string) string

	// PlacementKey keys a placement result by the content hash of both
	// datasets and the placement options.
	PlacementKey(dataHash string, opts PlacementKeyOpts) string

	// ArtifactKey keys a rendered artifact by placement hash and render
	// options.
	ArtifactKey(placementHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatasetKey generates a key for a loaded dataset.
func (k *DefaultKeyer) DatasetKey(kind, source string) string {
	return "dataset:" + kind + ":" + Hash([]byte(source))
}

// PlacementKey generates a key for a placement result.
func (k *DefaultKeyer) PlacementKey(dataHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", dataHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", placementHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
