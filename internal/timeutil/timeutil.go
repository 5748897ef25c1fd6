// Package timeutil provides calendar arithmetic in a configured business
// timezone, independent of the server's local time.
package timeutil

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Location resolves an IANA timezone identifier.
func Location(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return loc, nil
}

// DayOfWeek returns the day of week (0=Sunday..6=Saturday) of the instant's
// local calendar date in loc.
func DayOfWeek(t time.Time, loc *time.Location) int {
	return int(t.In(loc).Weekday())
}

// DateKey formats the instant as YYYY-MM-DD local to loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// FromDateKey parses a YYYY-MM-DD string as local midnight in loc.
func FromDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", key, err)
	}
	return t, nil
}

// StartOfDay returns local midnight of the instant's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// AddDays shifts the instant by n local calendar days. The calendar date
// changes by exactly n even across DST transitions.
func AddDays(t time.Time, n int, loc *time.Location) time.Time {
	return t.In(loc).AddDate(0, 0, n)
}

// Today returns local midnight "now" in loc.
func Today(loc *time.Location) time.Time {
	return StartOfDay(time.Now(), loc)
}
