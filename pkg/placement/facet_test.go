package placement

import "testing"

func facetRecords() []*Record {
	return []*Record{
		{County: "Nairobi", DateOfIncident: "14 March 2022", Year: 2022},
		{County: "Nairobi", DateOfIncident: "2 July 2022", Year: 2022},
		{County: "Mombasa", DateOfIncident: "1 Jan 2021", Year: 2021},
		{County: "Mombasa", DateOfIncident: "Unknown", Year: YearUnknown},
	}
}

func TestComputeFacets(t *testing.T) {
	f := ComputeFacets(facetRecords())

	if f.Total != 4 {
		t.Errorf("Total = %d, want 4", f.Total)
	}
	if f.Years[2022] != 2 {
		t.Errorf("Years[2022] = %d, want 2", f.Years[2022])
	}
	if f.Years[YearUnknown] != 1 {
		t.Errorf("Years[unknown] = %d, want 1", f.Years[YearUnknown])
	}
	if f.Counties["Nairobi"] != 2 || f.Counties["Mombasa"] != 2 {
		t.Errorf("county counts = %v, unexpected", f.Counties)
	}
}

func TestFilterByYear(t *testing.T) {
	recs := facetRecords()

	got := Filter(recs, 2022, false, FilterAll)
	if len(got) != 2 {
		t.Errorf("year 2022 filter returned %d records, want 2", len(got))
	}

	// Unknown-year records appear only under the wildcard.
	all := Filter(recs, 0, true, FilterAll)
	if len(all) != 4 {
		t.Errorf("wildcard returned %d records, want 4", len(all))
	}
	y2021 := Filter(recs, 2021, false, "")
	if len(y2021) != 1 {
		t.Errorf("year 2021 filter returned %d records, want 1", len(y2021))
	}
}

func TestFilterByCounty(t *testing.T) {
	recs := facetRecords()

	got := Filter(recs, 0, true, "mombasa")
	if len(got) != 2 {
		t.Errorf("county filter returned %d records, want 2", len(got))
	}

	got = Filter(recs, 2022, false, "Nairobi")
	if len(got) != 2 {
		t.Errorf("combined filter returned %d records, want 2", len(got))
	}

	got = Filter(recs, 0, true, "Kisumu")
	if len(got) != 0 {
		t.Errorf("no-match county returned %d records, want 0", len(got))
	}
}

func TestParseYearFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Year
		wantAll bool
	}{
		{"all", 0, true},
		{"", 0, true},
		{"ALL", 0, true},
		{"2022", 2022, false},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		y, all := ParseYearFilter(tt.in)
		if y != tt.want || all != tt.wantAll {
			t.Errorf("ParseYearFilter(%q) = (%d, %v), want (%d, %v)", tt.in, y, all, tt.want, tt.wantAll)
		}
	}
}

func TestExcludeResolved(t *testing.T) {
	recs := []*Record{
		{Name: "a", Status: "Found Alive"},
		{Name: "b", Status: "Unknown"},
		{Name: "c", Status: "Deceased"},
		{Name: "d", Status: "Still missing"},
		{Name: "e"},
	}

	got := ExcludeResolved(recs)
	if len(got) != 3 {
		t.Fatalf("ExcludeResolved kept %d records, want 3", len(got))
	}
	for _, rec := range got {
		if rec.Name == "a" || rec.Name == "d" {
			t.Errorf("record %q should have been excluded", rec.Name)
		}
	}
}
