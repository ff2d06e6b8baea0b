// Package dateutil holds calendar-date helpers shared by attendance,
// settlement and reporting. A calendar date is a time.Time at midnight UTC.
package dateutil

import (
	"time"
)

// Layout is the wire and storage format for calendar dates.
const Layout = "2006-01-02"

// Date returns the calendar date of t in its own location, as midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date as observed in loc.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Date(time.Now().In(loc))
}

// Parse parses a YYYY-MM-DD string into a calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Format renders a calendar date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// NextDay returns the calendar date after t.
func NextDay(t time.Time) time.Time {
	return Date(t).AddDate(0, 0, 1)
}
