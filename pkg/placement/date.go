package placement

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Year is an extracted incident year. The zero value is the unknown-year
// sentinel: excluded from year-filtered views, retained under "all years".
type Year int

// YearUnknown marks records whose date carries no recognizable year.
const YearUnknown Year = 0

// MarshalJSON writes the year as a number, or the string "Unknown" for the
// sentinel, matching the upstream record schema.
func (y Year) MarshalJSON() ([]byte, error) {
	if y == YearUnknown {
		return json.Marshal("Unknown")
	}
	return json.Marshal(int(y))
}

// UnmarshalJSON accepts both numeric years and the "Unknown" string form.
func (y *Year) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*y = Year(n)
		return nil
	}
	*y = YearUnknown
	return nil
}

// yearPattern matches the first 4-digit year starting with "20" in free
// text ("Incident on 14 March 2022" → 2022).
var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// ExtractYear pulls an incident year out of a free-text date. Returns
// YearUnknown when no 20xx token is present.
func ExtractYear(dateText string) Year {
	m := yearPattern.FindString(dateText)
	if m == "" {
		return YearUnknown
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return YearUnknown
	}
	return Year(n)
}

// monthNames maps lowercase written month names to the canonical written
// name used in output. Order matters: the index is the month number.
var monthNames = []struct {
	match string
	name  string
}{
	{"january", "January"}, {"february", "February"}, {"march", "March"},
	{"april", "April"}, {"may", "May"}, {"june", "June"},
	{"july", "July"}, {"august", "August"}, {"september", "September"},
	{"october", "October"}, {"november", "November"}, {"december", "December"},
}

// isoMonthPattern matches the month of a numeric "YYYY-MM" or "YYYY/MM"
// date.
var isoMonthPattern = regexp.MustCompile(`\b20\d{2}[-/](\d{1,2})\b`)

// ExtractMonth pulls a written month name from a free-text date, or
// "Unknown" if none matches. Matching is case-insensitive and tolerates
// the month embedded anywhere in the text; numeric ISO-style dates
// ("2022-06-14") resolve through their month number.
func ExtractMonth(dateText string) string {
	t := strings.ToLower(dateText)
	for _, m := range monthNames {
		if strings.Contains(t, m.match) {
			return m.name
		}
	}
	if sub := isoMonthPattern.FindStringSubmatch(t); sub != nil {
		if n, err := strconv.Atoi(sub[1]); err == nil && n >= 1 && n <= 12 {
			return monthNames[n-1].name
		}
	}
	return "Unknown"
}
