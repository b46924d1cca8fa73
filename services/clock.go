// services/clock.go - calendar-day helpers
package services

import "time"

// DateKey formats a timestamp as its YYYY-MM-DD calendar day.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// StartOfDay returns midnight of t's calendar day, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
