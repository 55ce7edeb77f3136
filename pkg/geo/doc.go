// Package geo provides the region model for the county map engine.
//
// A Region is a named administrative boundary (a Kenyan county) with its
// multi-polygon geometry, centroid and cached bounding box. Regions are
// collected into an Index built once from a GeoJSON boundary dataset and
// queried by normalized name or, in reverse, by geographic point.
//
// # Usage
//
// Build an index from a boundary file and look up a county:
//
//	fc, err := geo.LoadBoundaries("counties.geojson")
//	if err != nil {
//	    return err
//	}
//	idx, err := geo.BuildIndex(fc)
//	if err != nil {
//	    return err
//	}
//	nairobi, ok := idx.Lookup("Nairobi")
//
// Scatter points inside a county:
//
//	s := geo.NewSampler(42)
//	pts := s.Sample(nairobi, 100)
//
// Lookups fail softly: an unknown key yields ok=false, never an error.
// Fallback policy for unresolvable names lives with the caller.
package geo
