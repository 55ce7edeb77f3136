package placement

import "testing"

func TestInferCounty(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"town alias", "Eldoret town centre", "Uasin Gishu"},
		{"exact county", "Outskirts of Nakuru", "Nakuru"},
		{"case insensitive", "NAIROBI CBD", "Nairobi"},
		{"neighbourhood alias", "Mathare 4A", "Nairobi"},
		{"spelling variant", "near Homabay pier", "Homa Bay"},
		{"no match", "Somewhere unrecognizable", ""},
		{"empty", "", ""},
		// Two county names in one text: first in canonical list order wins.
		{"ambiguous first match", "road between Kisumu and Kisii", "Kisii"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferCounty(tt.text); got != tt.want {
				t.Errorf("InferCounty(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestInferCountyMultipleTexts(t *testing.T) {
	// Location has nothing; description names the county.
	got := InferCounty("near the market", "body found in Garissa township")
	if got != "Garissa" {
		t.Errorf("InferCounty = %q, want %q", got, "Garissa")
	}
}

func TestResolveCounty(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "explicit field wins",
			rec:  Record{County: "Kilifi", Location: "Eldoret town"},
			want: "Kilifi",
		},
		{
			name: "unknown field falls through to inference",
			rec:  Record{County: "Unknown", Location: "Eldoret town centre"},
			want: "Uasin Gishu",
		},
		{
			name: "empty field falls through",
			rec:  Record{Location: "Likoni, Mombasa"},
			want: "Mombasa",
		},
		{
			name: "nothing resolves",
			rec:  Record{County: "Unknown", Location: "Unknown"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCounty(&tt.rec); got != tt.want {
				t.Errorf("ResolveCounty = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalListComplete(t *testing.T) {
	if len(Counties) != 47 {
		t.Errorf("canonical county list has %d entries, want 47", len(Counties))
	}
	seen := make(map[string]bool)
	for _, c := range Counties {
		if seen[c] {
			t.Errorf("duplicate county %q", c)
		}
		seen[c] = true
	}
}
