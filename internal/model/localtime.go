package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// StoredLayout is how the backend writes naive wall-clock timestamps.
const StoredLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	StoredLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LocalTime is a timestamp without zone information. The backend stores
// wall-clock values, so they are interpreted in the local zone.
type LocalTime struct {
	time.Time
}

// ParseLocalTime accepts the layouts the backend emits or accepts.
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid local time %q", s)
}

func (t LocalTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(StoredLayout)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(StoredLayout))
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = LocalTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("local time: %w", err)
	}
	if s == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalYAML() (any, error) {
	return t.String(), nil
}
