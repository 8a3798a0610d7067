// Package timeutil provides civil-date helpers for the rating engine.
//
// Match timestamps arrive as epoch milliseconds and are bucketed into
// calendar dates in the configured timezone. A civil date is represented
// as a time.Time pinned to midnight UTC so dates can be compared and used
// as map keys without carrying the source location around.
package timeutil

import "time"

// FormatDate is the standard date format (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// FormatDateTime is used for run-period end stamps.
const FormatDateTime = "2006-01-02 03:04 PM MST"

// DateOf returns the civil date of t in loc, normalized to midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date directly from its components.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole days from a to b.
// Both arguments must be civil dates produced by DateOf or Date.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// FormatDateStr formats a civil date as YYYY-MM-DD.
func FormatDateStr(t time.Time) string {
	return t.Format(FormatDate)
}
