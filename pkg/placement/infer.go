package placement

import (
	"strings"

	"github.com/openkenya/countymap/pkg/geo"
)

// unknownCounty is the dataset's null value for the county field.
const unknownCounty = "unknown"

// ResolveCounty determines the county name for a record.
//
// Resolution order:
//  1. the explicit County field, unless empty or "Unknown"
//  2. substring inference over the record's location and description text
//
// The returned name is a canonical county name, or "" when nothing
// resolved. Resolution never errors; the caller applies fallback policy.
func ResolveCounty(r *Record) string {
	county := geo.NormalizeKey(r.County)
	if county != "" && county != unknownCounty {
		return r.County
	}
	return InferCounty(r.Location, r.Description)
}

// InferCounty scans the given texts for the first canonical county name,
// then the first known alias, appearing as a substring. First match in
// list order wins, even when the text mentions several counties; the scan
// order is fixed so results are reproducible.
func InferCounty(texts ...string) string {
	joined := strings.ToLower(strings.Join(texts, " "))
	if strings.TrimSpace(joined) == "" {
		return ""
	}
	for _, name := range Counties {
		if strings.Contains(joined, strings.ToLower(name)) {
			return name
		}
	}
	for _, a := range countyAliases {
		if strings.Contains(joined, a.alias) {
			return a.county
		}
	}
	return ""
}
