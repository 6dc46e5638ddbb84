package timeutil

import "time"

// ToUTC converts t to UTC preserving the absolute instant.
func ToUTC(t time.Time) time.Time {
	return t.In(time.UTC)
}

// NaiveAsUTC reinterprets the wall-clock reading of t as UTC time.
// Used for inputs that carry no zone information: they are treated as
// already being UTC, never as local time.
func NaiveAsUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// NoonUTC returns 12:00:00 UTC on the calendar day of t.
// Date-only historical imports are pinned to noon to avoid date-boundary
// ambiguity; callers needing sub-day precision must supply full timestamps.
func NoonUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
