package timeutil

import "time"

// DateLayout is the snapshot date key format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DateKey returns the UTC calendar date of t as a snapshot key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC.
func ParseDateKey(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// RetentionCutoff returns midnight UTC of the day retentionDays before now.
// Keys dated before the cutoff are expired.
func RetentionCutoff(now time.Time, retentionDays int) time.Time {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -retentionDays)
}
