package placement

import (
	"encoding/json"
	"testing"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		text string
		want Year
	}{
		{"Incident on 14 March 2022", 2022},
		{"20 June, 2025", 2025},
		{"2019-04-03", 2019},
		{"Unknown", YearUnknown},
		{"", YearUnknown},
		{"late 1999", YearUnknown},   // pre-2000 years are not recognized
		{"case 20221 pending", YearUnknown}, // 5-digit token is not a year
		{"between 2020 and 2021", 2020},     // first match wins
	}

	for _, tt := range tests {
		if got := ExtractYear(tt.text); got != tt.want {
			t.Errorf("ExtractYear(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestExtractMonth(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"14 March 2022", "March"},
		{"june 2020", "June"},
		{"2019-04-03", "April"},   // numeric ISO month
		{"2021/12", "December"},
		{"2021-13-01", "Unknown"}, // month out of range
		{"Unknown", "Unknown"},
	}

	for _, tt := range tests {
		if got := ExtractMonth(tt.text); got != tt.want {
			t.Errorf("ExtractMonth(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestYearJSON(t *testing.T) {
	known, err := json.Marshal(Year(2022))
	if err != nil {
		t.Fatal(err)
	}
	if string(known) != "2022" {
		t.Errorf("Marshal(2022) = %s, want 2022", known)
	}

	unknown, err := json.Marshal(YearUnknown)
	if err != nil {
		t.Fatal(err)
	}
	if string(unknown) != `"Unknown"` {
		t.Errorf(`Marshal(YearUnknown) = %s, want "Unknown"`, unknown)
	}

	var y Year
	if err := json.Unmarshal([]byte(`"Unknown"`), &y); err != nil {
		t.Fatal(err)
	}
	if y != YearUnknown {
		t.Errorf(`Unmarshal("Unknown") = %d, want sentinel`, y)
	}
	if err := json.Unmarshal([]byte("2017"), &y); err != nil {
		t.Fatal(err)
	}
	if y != 2017 {
		t.Errorf("Unmarshal(2017) = %d, want 2017", y)
	}
}
