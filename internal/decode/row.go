package decode

import (
	"encoding/json"
	"time"
)

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Row is the flat, category-independent form of a tracking entry. Nil
// pointers are stored as NULL.
type Row struct {
	LogType     string
	Timestamp   *string
	LogText     *string
	StoolType   *string
	StoolVolume *float64
	SuckScore   *float64
	Tags        []string // nil when the entry had no tags
}

// FormatTimestamp renders t as a UTC ISO-8601 instant with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// TagsJSON serializes Tags as a JSON array, or nil when Tags is nil.
func (r Row) TagsJSON() (*string, error) {
	if r.Tags == nil {
		return nil, nil
	}
	b, err := json.Marshal(r.Tags)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
