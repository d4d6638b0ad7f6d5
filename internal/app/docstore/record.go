// internal/app/docstore/record.go
package docstore

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one document as delivered by a backend: the document id under
// "id" plus whatever fields were written.
type Record map[string]any

// ID returns the record id, or "" if missing.
func (r Record) ID() string {
	return r.String(FieldID)
}

// String returns the field as a string. Non-string values yield "".
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Float returns the field as a finite float64. Missing, non-numeric, NaN and
// infinite values coalesce to 0; numeric strings are parsed.
func (r Record) Float(key string) float64 {
	var f float64
	switch v := r[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Bool returns the field as a bool; anything other than true is false.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Time parses the field as an RFC 3339 timestamp or a YYYY-MM-DD date
// (interpreted as UTC midnight). ok is false when the field is missing or
// unparseable.
func (r Record) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Clone returns a shallow copy so callers can hand records out without
// aliasing backend state.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
