package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the wire and storage format for return dates (day precision).
const Layout = "02.01.2006"

var ErrPastDate = errors.New("date is in the past")

// Format renders a date in the storage layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse parses a stored return date. The result carries no time of day.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Midnight truncates a timestamp to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateFuture parses a user-entered return date and rejects dates before
// today. Used by the interactive surface only; the sweep never re-validates.
func ValidateFuture(s string, now time.Time) (time.Time, error) {
	t, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Before(Midnight(now)) {
		return time.Time{}, ErrPastDate
	}
	return t, nil
}
