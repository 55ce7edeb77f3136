package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openkenya/countymap/pkg/cache"
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
      "properties": {"COUNTY_NAM": "Mombasa"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[39.5, -4.2], [39.8, -4.2], [39.8, -3.9], [39.5, -3.9], [39.5, -4.2]]]]
      }
    }
  ]
}`

const recordJSON = `[
  {"Name": "Case One", "County": "Nairobi", "Location": "Westlands", "Date of Incident": "2021-03-01"},
  {"Name": "Case Two", "County": "Mombasa", "Location": "Nyali", "Date of Incident": "2022-07-12"},
  {"Name": "Case Three", "County": "Unknown", "Location": "Eastleigh, Nairobi", "Date of Incident": "2021-09-30"},
  {"Name": "Case Four", "County": "Unknown", "Location": "somewhere", "Date of Incident": "unknown",
   "Status of Case": "Found alive"}
]`

func writeFixtures(t *testing.T) (boundaryPath, recordPath string) {
	t.Helper()
	dir := t.TempDir()
	boundaryPath = filepath.Join(dir, "counties.geojson")
	recordPath = filepath.Join(dir, "records.json")
	if err := os.WriteFile(boundaryPath, []byte(boundaryJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(recordPath, []byte(recordJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return boundaryPath, recordPath
}

func testOptions(t *testing.T) Options {
	t.Helper()
	boundaryPath, recordPath := writeFixtures(t)
	return Options{
		BoundaryPath: boundaryPath,
		RecordPath:   recordPath,
		Formats:      []string{FormatSVG, FormatJSON},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{
		BoundaryPath: "counties.geojson",
		RecordPath:   "records.json",
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("valid options should pass: %v", err)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Fallback != DefaultFallback {
		t.Errorf("Fallback = %q, want %q", opts.Fallback, DefaultFallback)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("canvas = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestOptionsValidation(t *testing.T) {
	opts := Options{RecordPath: "records.json"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("missing boundary_path should fail")
	}

	opts = Options{BoundaryPath: "counties.geojson"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("missing record_path should fail")
	}

	opts = Options{
		BoundaryPath: "counties.geojson",
		RecordPath:   "records.json",
		Formats:      []string{"png"},
	}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), testOptions(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.RegionCount != 2 {
		t.Errorf("RegionCount = %d, want 2", result.Stats.RegionCount)
	}
	if result.Stats.RecordCount != 4 {
		t.Errorf("RecordCount = %d, want 4", result.Stats.RecordCount)
	}
	// Case Four has no resolvable county and falls back to nairobi.
	if result.Placement.Placed != 4 || result.Placement.Dropped != 0 {
		t.Errorf("placement = %+v, want all 4 placed", result.Placement)
	}

	// Every placed point locates back to a county in the index.
	for _, rec := range result.Records {
		pt, ok := rec.Placement()
		if !ok {
			t.Errorf("record %q not placed", rec.Name)
			continue
		}
		if _, ok := result.Index.Locate(pt); !ok {
			t.Errorf("record %q placed outside all counties at %v", rec.Name, pt)
		}
	}

	svg, ok := result.Artifacts[FormatSVG]
	if !ok || !strings.Contains(string(svg), "<svg") {
		t.Errorf("svg artifact missing or malformed")
	}
	if _, ok := result.Artifacts[FormatJSON]; !ok {
		t.Errorf("json artifact missing")
	}
	if result.DataHash == "" {
		t.Error("DataHash not set")
	}
	if result.Facets.Total != 4 {
		t.Errorf("Facets.Total = %d, want 4", result.Facets.Total)
	}
}

func TestExecuteExcludeResolved(t *testing.T) {
	opts := testOptions(t)
	opts.ExcludeResolved = true

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Case Four ("Found alive") is filtered out before placement.
	if result.Stats.RecordCount != 3 {
		t.Errorf("RecordCount = %d, want 3", result.Stats.RecordCount)
	}
	if result.Placement.Placed != 3 {
		t.Errorf("Placed = %d, want 3", result.Placement.Placed)
	}
}

func TestExecuteCaching(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := testOptions(t)

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.PlacementHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.PlacementHit {
		t.Error("second run should hit the placement cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered one")
	}

	// Same inputs, same seed: placements agree even through the cache.
	for i := range first.Records {
		p1, ok1 := first.Records[i].Placement()
		p2, ok2 := second.Records[i].Placement()
		if ok1 != ok2 || p1 != p2 {
			t.Errorf("record %d placement drifted: %v vs %v", i, p1, p2)
		}
	}

	// A different seed must not reuse cached placements.
	reseeded := opts
	reseeded.Seed = 99
	third, err := runner.Execute(context.Background(), reseeded)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.PlacementHit {
		t.Error("different seed should miss the placement cache")
	}
}

func TestExecuteRefresh(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := testOptions(t)
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatalf("warm-up Execute: %v", err)
	}

	opts.Refresh = true
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.PlacementHit {
		t.Error("refresh run should bypass the placement cache")
	}
}

func TestRenderFocusUnknownCounty(t *testing.T) {
	ds, err := Load(context.Background(), testOptions(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts := testOptions(t)
	opts.Focus = "atlantis"
	_, err = Render(ds, opts)
	if err == nil {
		t.Fatal("unknown focus county should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeRegionNotFound {
		t.Errorf("error code = %v, want region not found", errors.GetCode(err))
	}
}

func TestRenderYearFilter(t *testing.T) {
	ds, err := Load(context.Background(), testOptions(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := testOptions(t)
	Place(ds, opts)

	opts.Year = "2022"
	opts.Formats = []string{FormatJSON}
	artifacts, err := Render(ds, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(artifacts[FormatJSON])
	if !strings.Contains(out, "Case Two") {
		t.Errorf("2022 record missing:\n%s", out)
	}
	if strings.Contains(out, "Case One") || strings.Contains(out, "Case Four") {
		t.Errorf("filtered records leaked:\n%s", out)
	}
}

func TestLoadMissingFile(t *testing.T) {
	opts := testOptions(t)
	opts.RecordPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("missing record file should fail")
	}
}
