package utils

import "time"

// The engine buckets activity by UTC calendar date; these helpers are the
// single place that policy lives.

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfDayUTC returns midnight UTC of t's calendar date in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	return StartOfDay(t.UTC())
}

func DatesEqualUTC(t1, t2 time.Time) bool {
	return StartOfDayUTC(t1).Equal(StartOfDayUTC(t2))
}

func TruncateToMinutes(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// NowUTC returns the current time in UTC
func NowUTC() time.Time {
	return time.Now().UTC()
}
