package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// trackingRecord mirrors a TrackingData object in the JSONL export.
type trackingRecord struct {
	RealmID           string            `json:"realmIdString"`
	TrackingType      string            `json:"trackingType"`
	Text              *string           `json:"text"`
	Value             *float64          `json:"value"`
	Tags              *string           `json:"tags"`
	TimestampTracking string            `json:"timestamptracking"`
	Deleted           bool              `json:"deleted"`
	MealItems         []mealItemRecord  `json:"mealItems"`
	Medication        *medicationRecord `json:"medication"`
}

type mealItemRecord struct {
	RealmID         string             `json:"realmIdString"`
	Name            *string            `json:"name"`
	FoodItemSchemas []foodSchemaRecord `json:"foodItemSchemas"`
}

type foodSchemaRecord struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type medicationRecord struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// Reader yields entries from a JSONL export in file order.
type Reader struct {
	f       *os.File
	scanner *bufio.Scanner
	lineNum int
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}

// NewReader wraps an already open export file. Close closes it.
func NewReader(f *os.File) *Reader {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{f: f, scanner: scanner}
}

// Next returns the next entry, or io.EOF once the export is exhausted.
// A line that does not decode is an error; entries are never skipped.
func (r *Reader) Next() (*Entry, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec trackingRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: decode entry: %w", r.lineNum, err)
		}

		entry, err := rec.toEntry(r.lineNum)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
		}
		return entry, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.lineNum+1, err)
	}
	return nil, io.EOF
}

func (r *Reader) Close() error {
	return r.f.Close()
}

func (rec trackingRecord) toEntry(line int) (*Entry, error) {
	e := &Entry{
		ID:       rec.RealmID,
		Line:     line,
		Category: rec.TrackingType,
		Deleted:  rec.Deleted,
		RawText:  rec.Text,
		RawValue: rec.Value,
		RawTags:  rec.Tags,
	}

	// deleted entries are never migrated, so their timestamp is not validated
	if rec.TimestampTracking != "" && !rec.Deleted {
		ts, err := parseTimestamp(rec.TimestampTracking)
		if err != nil {
			return nil, err
		}
		e.Timestamp = &ts
	}

	for _, m := range rec.MealItems {
		item := MealItem{ID: m.RealmID}
		if m.Name != nil {
			item.Name = *m.Name
		}
		for _, s := range m.FoodItemSchemas {
			tag := FoodTag{ID: s.ID}
			if s.Name != nil {
				tag.Name = *s.Name
			}
			item.FoodTags = append(item.FoodTags, tag)
		}
		e.MealItems = append(e.MealItems, item)
	}

	if rec.Medication != nil {
		e.MedicationRef = &Medication{ID: rec.Medication.ID, Name: rec.Medication.Name}
	}

	return e, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// ISO8601 without timezone, taken as UTC
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamptracking %q", s)
}

// Counts summarizes an export without decoding it for migration.
type Counts struct {
	Total   int
	Deleted int
}

// Count reads the whole export and tallies entries.
func Count(path string) (Counts, error) {
	var c Counts
	r, err := Open(path)
	if err != nil {
		return c, err
	}
	defer r.Close()

	for {
		e, err := r.Next()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		c.Total++
		if e.Deleted {
			c.Deleted++
		}
	}
}
