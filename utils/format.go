package utils

import (
	"fmt"
	"time"
)

// NoData is shown wherever a highlight has nothing recorded.
const NoData = "no data"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// FormatLastUpdated renders how long ago at was, relative to now.
func FormatLastUpdated(at, now time.Time) string {
	d := now.Sub(at)
	minutes := int64(d / time.Minute)
	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	default:
		return fmt.Sprintf("%d hours ago", int64(d/time.Hour))
	}
}

// FormatSleepDuration renders fractional hours as "7h 30min".
func FormatSleepDuration(hours float64) string {
	whole := int(hours)
	minutes := int((hours - float64(whole)) * 60)
	return fmt.Sprintf("%dh %dmin", whole, minutes)
}

// FormatWorkoutDuration renders minutes as "1h 15min", or "45min" under an hour.
func FormatWorkoutDuration(minutes float64) string {
	whole := int(minutes)
	if h := whole / 60; h > 0 {
		return fmt.Sprintf("%dh %dmin", h, whole%60)
	}
	return fmt.Sprintf("%dmin", whole)
}
