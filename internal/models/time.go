package models

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	// DateLayout is the wire format of due dates.
	DateLayout = "2006-01-02"

	localDateTimeLayout = "2006-01-02T15:04:05.999999999"
)

var null = []byte("null")

// Time is a timestamp that accepts RFC 3339 and zone-less local date-times,
// both of which the API emits depending on the record type.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, null) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, localDateTimeLayout, DateLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return &time.ParseError{Layout: time.RFC3339, Value: raw, Message: ": unsupported timestamp"}
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return null, nil
	}

	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Display formats the timestamp as a date, or "N/A" when unset.
func (t Time) Display() string {
	if t.IsZero() {
		return "N/A"
	}

	return t.Format(DateLayout)
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// ParseDate parses a yyyy-mm-dd date. The empty string yields a nil date.
func ParseDate(s string) (*Date, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // absent date
	}

	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}

	return &Date{Time: d}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var t Time
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}

	d.Time = t.Time

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return null, nil
	}

	return json.Marshal(d.Format(DateLayout))
}

// String formats the date as yyyy-mm-dd, or "" when unset.
func (d *Date) String() string {
	if d == nil || d.IsZero() {
		return ""
	}

	return d.Format(DateLayout)
}
