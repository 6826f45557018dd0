package utils

import "time"

const (
	// DateLayout is the canonical event date, DD-MM-YYYY.
	DateLayout = "02-01-2006"
	// TimeLayout is the canonical time of day, HH:MM.
	TimeLayout = "15:04"
	// TimestampLayout is used for last_update values.
	TimestampLayout = "2006-01-02 15:04:05"
)

// FormatTimestamp renders t as a last_update value.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseDate parses a canonical event date in the local zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
