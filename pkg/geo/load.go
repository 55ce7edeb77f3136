package geo

import (
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/openkenya/countymap/pkg/errors"
)

// nameProperties are the feature property keys checked, in order, for a
// region's display name. Kenya county datasets in the wild disagree on
// the key; the first non-empty match wins.
var nameProperties = []string{"COUNTY_NAM", "COUNTY", "county", "name", "Name", "NAME"}

// LoadBoundaries reads a GeoJSON FeatureCollection from a file.
func LoadBoundaries(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "boundary file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "open boundary file %s", path)
	}
	defer f.Close()
	return ReadBoundaries(f)
}

// ReadBoundaries decodes a GeoJSON FeatureCollection from r.
func ReadBoundaries(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "read boundary data")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "decode boundary GeoJSON")
	}
	return fc, nil
}

// BuildIndex converts a boundary FeatureCollection into an Index. Features
// without a usable name or with non-areal geometry are skipped; an empty
// result is an error.
func BuildIndex(fc *geojson.FeatureCollection) (*Index, error) {
	var regions []*Region
	for _, f := range fc.Features {
		name := featureName(f)
		if name == "" {
			continue
		}
		mp, ok := arealGeometry(f.Geometry)
		if !ok {
			continue
		}
		regions = append(regions, NewRegion(name, mp))
	}
	return NewIndex(regions)
}

func featureName(f *geojson.Feature) string {
	for _, key := range nameProperties {
		if v, ok := f.Properties[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func arealGeometry(g orb.Geometry) (orb.MultiPolygon, bool) {
	switch geom := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{geom}, true
	case orb.MultiPolygon:
		return geom, true
	default:
		return nil, false
	}
}
