package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// flexID tolerates the upstream's habit of serializing identifiers as either
// JSON strings or numbers, normalizing both to a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f flexID) String() string { return string(f) }

func (f *flexID) ptr() *string {
	if f == nil || *f == "" {
		return nil
	}
	s := string(*f)
	return &s
}

func idPtr(s *string) *flexID {
	if s == nil || *s == "" {
		return nil
	}
	id := flexID(*s)
	return &id
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// wireTime accepts the timestamp formats observed in upstream responses:
// RFC 3339 with or without fractions, bare dates, and epoch milliseconds.
type wireTime struct {
	time.Time
}

func (w *wireTime) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		w.Time = time.Time{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		if s == "" {
			w.Time = time.Time{}
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				w.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp %q", s)
	}

	millis, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	w.Time = time.UnixMilli(millis).UTC()
	return nil
}

func (w wireTime) MarshalJSON() ([]byte, error) {
	if w.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(w.Time.Format(time.RFC3339))
}

func (w *wireTime) timePtr() *time.Time {
	if w == nil || w.Time.IsZero() {
		return nil
	}
	t := w.Time
	return &t
}

func wireTimePtr(t *time.Time) *wireTime {
	if t == nil || t.IsZero() {
		return nil
	}
	return &wireTime{Time: *t}
}
