package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitweek/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// Today returns midnight of the calendar day containing t, in t's location.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts t by n calendar days. The wall clock is kept, so a local
// midnight stays a local midnight across DST changes.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDateKey returns the completion key (YYYY-MM-DD) for the local calendar
// day of t. The time of day does not affect the result.
func FormatDateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateKey parses a completion key to midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidDateKey checks if the string is a well-formed completion key.
func ValidDateKey(key string) bool {
	_, err := time.Parse(constants.DateFormat, key)
	return err == nil
}
