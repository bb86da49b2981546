package workday

import (
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
)

// IsWeekend reports whether t falls on the regional weekend (Friday or Saturday).
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// Date truncates t to midnight UTC of its calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC date.
func Today(c clock.Clock) time.Time {
	return Date(c.Now().UTC())
}

// BusinessDays counts the non-weekend days in [start, end], both inclusive.
// It returns 0 when start is after end.
func BusinessDays(start, end time.Time) int {
	start, end = Date(start), Date(end)
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			days++
		}
	}
	return days
}
