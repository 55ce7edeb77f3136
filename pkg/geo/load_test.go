package geo

import (
	"strings"
	"testing"

	"github.com/openkenya/countymap/pkg/errors"
)

const boundaryJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"COUNTY_NAM": "Nairobi"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[36.6, -1.4], [37.1, -1.4], [37.1, -1.1], [36.6, -1.1], [36.6, -1.4]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"name": "Mombasa"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[39.5, -4.2], [39.8, -4.2], [39.8, -3.9], [39.5, -3.9], [39.5, -4.2]]]]
      }
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {
        "type": "Point",
        "coordinates": [36.8, -1.3]
      }
    }
  ]
}`

func TestBuildIndexFromGeoJSON(t *testing.T) {
	fc, err := ReadBoundaries(strings.NewReader(boundaryJSON))
	if err != nil {
		t.Fatalf("ReadBoundaries: %v", err)
	}

	idx, err := BuildIndex(fc)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	// The unnamed point feature is skipped.
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}

	nairobi, ok := idx.Lookup("nairobi")
	if !ok {
		t.Fatal("Nairobi not indexed")
	}
	if len(nairobi.Geometry) != 1 {
		t.Errorf("polygon not promoted to multi-polygon")
	}
	b := nairobi.Bound()
	if b.Min.X() != 36.6 || b.Max.Y() != -1.1 {
		t.Errorf("cached bound = %v, unexpected", b)
	}

	if _, ok := idx.Lookup("mombasa"); !ok {
		t.Error("Mombasa (MultiPolygon feature) not indexed")
	}
}

func TestReadBoundariesMalformed(t *testing.T) {
	_, err := ReadBoundaries(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("malformed input should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidBoundary) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBoundary)
	}
}

func TestLoadBoundariesMissingFile(t *testing.T) {
	_, err := LoadBoundaries("testdata/does-not-exist.geojson")
	if err == nil {
		t.Fatal("missing file should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}
