package utils

import (
	"time"
)

const isoDateLayout = "2006-01-02"

// TimeNowIn returns the current time in the named location, falling back to
// UTC when the location cannot be loaded.
func TimeNowIn(name string) time.Time {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}

// ParseISODate parses a YYYY-MM-DD string.
func ParseISODate(value string) (time.Time, error) {
	return time.Parse(isoDateLayout, value)
}

// FormatISODate formats a time as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// Midnight truncates a time to the start of its day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a. Only the calendar date of each argument
// counts, so times carrying different locations compare cleanly.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
