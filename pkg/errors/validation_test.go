package errors

import (
	"strings"
	"testing"
)

func TestValidateRegionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Nairobi", false},
		{"two words", "Homa Bay", false},
		{"apostrophe", "Murang'a", false},
		{"hyphen", "Taita-Taveta", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"control char", "Nai\x01robi", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegionName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegionName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDataPath(t *testing.T) {
	if err := ValidateDataPath("data/counties.geojson"); err != nil {
		t.Errorf("valid path should pass: %v", err)
	}
	if err := ValidateDataPath(""); err == nil {
		t.Error("empty path should fail")
	}
	if err := ValidateDataPath("a\x00b"); err == nil {
		t.Error("null byte should fail")
	}
}
