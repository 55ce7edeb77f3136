package placement

import "strings"

// FilterAll is the wildcard value for year and county filters.
const FilterAll = "all"

// Facets holds per-year and per-county counts over a placed record set,
// for display next to the filter controls.
type Facets struct {
	Years    map[Year]int   `json:"years"`
	Counties map[string]int `json:"counties"`
	Total    int            `json:"total"`
}

// ComputeFacets tallies years and counties over the given records.
// Records with an unknown year still count toward their county and the
// total; they surface under the YearUnknown key.
func ComputeFacets(records []*Record) Facets {
	f := Facets{
		Years:    make(map[Year]int),
		Counties: make(map[string]int),
	}
	for _, rec := range records {
		f.Years[rec.Year]++
		if c := ResolveCounty(rec); c != "" {
			f.Counties[c]++
		}
		f.Total++
	}
	return f
}

// Filter narrows records by year and county. Either filter accepts
// FilterAll (or "") as a wildcard. Year filtering compares the derived
// year, so unknown-year records only appear under the wildcard; county
// filtering compares the resolved county case-insensitively.
func Filter(records []*Record, year Year, yearAll bool, county string) []*Record {
	wantCounty := strings.ToLower(strings.TrimSpace(county))
	countyAll := wantCounty == "" || wantCounty == FilterAll

	var out []*Record
	for _, rec := range records {
		if !yearAll {
			if rec.Year == YearUnknown || rec.Year != year {
				continue
			}
		}
		if !countyAll && strings.ToLower(ResolveCounty(rec)) != wantCounty {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ParseYearFilter interprets a year filter string from a UI control.
// "", "all" (any case) mean the wildcard; anything else must parse as a
// year. Unparseable input is treated as the wildcard rather than an error
// so a stale dropdown value can never break rendering.
func ParseYearFilter(s string) (year Year, all bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == FilterAll {
		return YearUnknown, true
	}
	y := ExtractYear(s)
	if y == YearUnknown {
		return YearUnknown, true
	}
	return y, false
}

// resolvedStatuses marks case-status values describing a person who was
// later found or whose case remains open, excluded from the placed set
// when the exclude-resolved policy is on.
var resolvedStatuses = []string{
	"found alive",
	"returned home",
	"returned",
	"still missing",
	"whereabouts unknown",
}

// ExcludeResolved filters out records whose case status says the subject
// was later found alive or is still missing. Unknown or empty statuses are
// kept. The policy is opt-in via configuration; with it off, every record
// is placed regardless of status.
func ExcludeResolved(records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		if statusResolved(rec.Status) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func statusResolved(status string) bool {
	s := strings.ToLower(status)
	for _, marker := range resolvedStatuses {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
