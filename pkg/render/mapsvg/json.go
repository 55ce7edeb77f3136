package mapsvg

import (
	"encoding/json"

	"github.com/openkenya/countymap/pkg/placement"
)

// PlacedRecord is the JSON shape of one placed record.
type PlacedRecord struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	County string  `json:"county"`
	Year   int     `json:"year,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// RenderJSON emits the placed records of a map as pixel-space JSON.
// Unplaced records are skipped.
func RenderJSON(m Map) ([]byte, error) {
	out := make([]PlacedRecord, 0, len(m.Records))
	for _, rec := range m.Records {
		pt, ok := rec.Placement()
		if !ok {
			continue
		}
		x, y := m.Projection.Project(pt)
		out = append(out, PlacedRecord{
			ID:     rec.ID,
			Name:   rec.Name,
			County: placement.ResolveCounty(rec),
			Year:   int(rec.Year),
			X:      x,
			Y:      y,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
