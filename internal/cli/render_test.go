package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"json", []string{"json"}},
		{"svg,json", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "map"},
		{"out/kenya", "out/kenya"},
		{"out/kenya.svg", "out/kenya"},
		{"out/kenya.json", "out/kenya"},
		{"out/kenya.txt", "out/kenya.txt"}, // unknown extensions are kept
	}
	for _, tt := range tests {
		if got := basePath(tt.in); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountySummary(t *testing.T) {
	byCounty := map[string]int{
		"Nairobi":  12,
		"Mombasa":  7,
		"Kisumu":   7,
		"Garissa":  1,
		"Nakuru":   3,
		"Turkana":  2,
		"Machakos": 2,
	}

	lines := countySummary(byCounty, 5)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}

	// Sorted by count descending, ties broken alphabetically.
	wantOrder := []string{"Nairobi", "Kisumu", "Mombasa", "Nakuru", "Machakos"}
	for i, county := range wantOrder {
		if lines[i][:len(county)] != county {
			t.Errorf("line %d = %q, want it to start with %q", i, lines[i], county)
		}
	}
}
