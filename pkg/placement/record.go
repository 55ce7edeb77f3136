package placement

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/errors"
)

// Record is one incident entry from the record dataset. Field names mirror
// the upstream JSON schema; everything is free text except the derived
// Year/Month and the placement.
type Record struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"Name"`
	Sex            string `json:"Sex,omitempty"`
	Location       string `json:"Location"`
	County         string `json:"County,omitempty"`
	DateOfIncident string `json:"Date of Incident"`
	MannerOfDeath  string `json:"Manner of Death,omitempty"`
	Perpetrator    string `json:"Perpetrator,omitempty"`
	Status         string `json:"Status of Case,omitempty"`
	Occupation     string `json:"Occupation,omitempty"`
	Description    string `json:"Description,omitempty"`

	// Year is derived from DateOfIncident; YearUnknown when no year could
	// be extracted. Serialized as a number, or "Unknown" for the sentinel,
	// matching the upstream schema.
	Year Year `json:"Year,omitempty"`

	// Month is the written month name ("June"), or "Unknown".
	Month string `json:"Month,omitempty"`

	placement *orb.Point
}

// Placement returns the record's assigned point and whether one is set.
func (r *Record) Placement() (orb.Point, bool) {
	if r.placement == nil {
		return orb.Point{}, false
	}
	return *r.placement, true
}

// SetPlacement assigns the record's point. The first assignment wins;
// later calls are ignored so re-running a pipeline, or restoring a cached
// placement over a fresh one, cannot move markers.
func (r *Record) SetPlacement(pt orb.Point) {
	if r.placement == nil {
		r.placement = &pt
	}
}

// Placed reports whether the record carries a placement.
func (r *Record) Placed() bool {
	return r.placement != nil
}

// LoadRecords reads a record dataset from a file. Both a JSON array and
// JSONL (one object per line) are accepted.
func LoadRecords(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "record file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "open record file %s", path)
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords decodes a record dataset from r, deriving IDs and years for
// every record.
func ReadRecords(r io.Reader) ([]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "read record data")
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.Year == YearUnknown {
			rec.Year = ExtractYear(rec.DateOfIncident)
		}
	}
	return records, nil
}

func decodeRecords(data []byte) ([]*Record, error) {
	var records []*Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	// Fall back to JSONL.
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "decode record dataset")
		}
		records = append(records, &rec)
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "record dataset is empty or malformed")
	}
	return records, nil
}
