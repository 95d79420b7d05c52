package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// RawAmount keeps a JSON amount exactly as the client sent it: number, string or null.
// Coercion into money happens in the posting path, not at decode time.
type RawAmount struct {
	value any
}

// NewRawAmount wraps an arbitrary value, mostly for tests and internal callers.
func NewRawAmount(v any) RawAmount {
	return RawAmount{value: v}
}

// Value returns the decoded value (json.Number, string, bool, nil, ...).
func (a RawAmount) Value() any {
	return a.value
}

// UnmarshalJSON never fails: whatever cannot be decoded is kept as nil.
func (a *RawAmount) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		a.value = nil
		return nil
	}
	a.value = v
	return nil
}

// MarshalJSON writes the original value back.
func (a RawAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value)
}

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// CalendarDate is a date without time of day. It accepts YYYY-MM-DD or RFC3339 input.
type CalendarDate struct {
	time.Time
}

// NewCalendarDate truncates t to its UTC calendar day.
func NewCalendarDate(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// ParseDate parses YYYY-MM-DD or RFC3339 into a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return NewCalendarDate(t).Time, nil
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}
