package placement

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

const recordArrayJSON = `[
  {"Name": "A", "Location": "Eldoret town centre", "County": "Unknown", "Date of Incident": "14 March 2022"},
  {"Name": "B", "Location": "Mathare", "County": "Nairobi", "Date of Incident": "Unknown", "Year": "Unknown"},
  {"Name": "C", "Location": "Likoni", "County": "Mombasa", "Date of Incident": "20 June, 2025", "Year": 2025}
]`

const recordJSONL = `{"Name": "A", "Location": "Kisumu", "Date of Incident": "1 Feb 2020"}
{"Name": "B", "Location": "Unknown", "Date of Incident": "Unknown"}
`

func TestReadRecordsArray(t *testing.T) {
	recs, err := ReadRecords(strings.NewReader(recordArrayJSON))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}

	for _, rec := range recs {
		if rec.ID == "" {
			t.Errorf("record %q has no generated ID", rec.Name)
		}
		if rec.Placed() {
			t.Errorf("record %q placed before pipeline ran", rec.Name)
		}
	}

	if recs[0].Year != 2022 {
		t.Errorf("derived year = %d, want 2022", recs[0].Year)
	}
	if recs[1].Year != YearUnknown {
		t.Errorf("year = %d, want unknown sentinel", recs[1].Year)
	}
	if recs[2].Year != 2025 {
		t.Errorf("explicit year = %d, want 2025", recs[2].Year)
	}
}

func TestReadRecordsJSONL(t *testing.T) {
	recs, err := ReadRecords(strings.NewReader(recordJSONL))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Year != 2020 {
		t.Errorf("derived year = %d, want 2020", recs[0].Year)
	}
}

func TestReadRecordsMalformed(t *testing.T) {
	if _, err := ReadRecords(strings.NewReader("not json at all")); err == nil {
		t.Fatal("malformed dataset should fail")
	}
	if _, err := ReadRecords(strings.NewReader("")); err == nil {
		t.Fatal("empty dataset should fail")
	}
}

func TestPlacementSetOnce(t *testing.T) {
	rec := &Record{Name: "X"}

	if _, ok := rec.Placement(); ok {
		t.Fatal("fresh record should have no placement")
	}

	rec.SetPlacement(orb.Point{1, 2})
	rec.SetPlacement(orb.Point{3, 4})

	pt, ok := rec.Placement()
	if !ok {
		t.Fatal("placement missing after set")
	}
	if pt.X() != 1 || pt.Y() != 2 {
		t.Errorf("placement = %v, first assignment should win", pt)
	}
}
