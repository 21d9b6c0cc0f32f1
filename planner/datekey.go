// Package planner holds the pure scheduling core of AceIt: canonical
// date keys, the Monday-aligned week grid, slot layout geometry and the
// slot-completion workflow. Nothing in this package performs I/O.
package planner

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedDate  = errors.New("malformed date, expected YYYY-MM-DD")
	ErrMalformedClock = errors.New("malformed time, expected HH:MM or HH:MM:SS")
)

// DateKey is the canonical YYYY-MM-DD key for a calendar date. It is always
// derived from local calendar fields, never from a UTC-serialized timestamp,
// so a client and a service in different timezones agree on which day a
// value belongs to. Compute it once at ingestion and use it for every map
// key and comparison afterwards.
type DateKey string

// NewDateKey builds the canonical key from the local calendar fields of t.
func NewDateKey(t time.Time) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// ParseDateKey validates s and returns it as a DateKey.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return NewDateKey(t), nil
}

// Time returns local midnight of the key's date.
func (k DateKey) Time() time.Time {
	t, err := time.ParseInLocation("2006-01-02", string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// String implements fmt.Stringer.
func (k DateKey) String() string {
	return string(k)
}

// ClockTime is a same-day wall-clock time stored as minutes from midnight.
type ClockTime int

// ParseClock parses "HH:MM" or "HH:MM:SS" 24-hour time. Seconds are
// accepted at the boundary and discarded.
func ParseClock(s string) (ClockTime, error) {
	var h, m, sec int
	switch n, _ := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); n {
	case 2, 3:
	default:
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	return ClockTime(h*60 + m), nil
}

// Hour returns the hour component.
func (c ClockTime) Hour() int {
	return int(c) / 60
}

// Minute returns the minute component.
func (c ClockTime) Minute() int {
	return int(c) % 60
}

// Minutes returns minutes elapsed since midnight.
func (c ClockTime) Minutes() int {
	return int(c)
}

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
