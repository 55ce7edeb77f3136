package geo

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Region is a named administrative boundary with cached derived geometry.
// The zero value is not usable; construct regions via NewRegion or BuildIndex.
type Region struct {
	// Key is the normalized lookup key (lowercase, trimmed).
	Key string

	// Name is the display name as it appears in the boundary dataset.
	Name string

	// Geometry holds the boundary as a multi-polygon. Single polygons are
	// promoted to a one-element multi-polygon at load time.
	Geometry orb.MultiPolygon

	// Center is the area-weighted centroid of the geometry.
	Center orb.Point

	bound orb.Bound
}

// NewRegion builds a Region from a display name and geometry, computing
// the centroid and bounding box once.
func NewRegion(name string, geom orb.MultiPolygon) *Region {
	center, _ := planar.CentroidArea(geom)
	return &Region{
		Key:      NormalizeKey(name),
		Name:     name,
		Geometry: geom,
		Center:   center,
		bound:    geom.Bound(),
	}
}

// Bound returns the cached bounding box of the region geometry.
func (r *Region) Bound() orb.Bound {
	return r.bound
}

// Contains reports whether pt lies inside the region's polygon geometry.
// This is exact containment (holes respected), not a bounding-box test.
func (r *Region) Contains(pt orb.Point) bool {
	if !r.bound.Contains(pt) {
		return false
	}
	return planar.MultiPolygonContains(r.Geometry, pt)
}

// Area returns the planar area of the region geometry in squared degrees.
// Only meaningful for comparing regions at similar latitudes.
func (r *Region) Area() float64 {
	return planar.Area(r.Geometry)
}

// NormalizeKey converts a region name to its canonical lookup form:
// lowercased with surrounding whitespace removed. "Homa Bay", "homa bay"
// and " HOMA BAY " all map to the same key.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
