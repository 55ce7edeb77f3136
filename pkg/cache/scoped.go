package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments (or
// separate dataset snapshots) sharing one redis instance stay isolated.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "snapshot:2025-08:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed key for dataset caching.
func (k *ScopedKeyer) DatasetKey(kind, source string) string {
	return k.prefix + k.inner.DatasetKey(kind, source)
}

// PlacementKey generates a prefixed key for placement caching.
func (k *ScopedKeyer) PlacementKey(dataHash string, opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(dataHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(placementHash, opts)
}
