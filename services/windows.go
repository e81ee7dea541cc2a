package services

import (
	"fmt"
	"math"
	"time"

	"github.com/healthtrack/backend/utils"
)

const (
	// ScoreLookback is how far back readings count toward the health score.
	ScoreLookback = 24 * time.Hour
	// SleepLookback bounds the search for last night's sleep entry.
	SleepLookback = 36 * time.Hour
	// WeeklyListingDays is the span of the weekly health-data listing, today included.
	WeeklyListingDays = 7
)

// Clock returns the current time. Every window is computed in the location of
// the time it returns, so write and read paths must share one Clock.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayWindow returns the half-open calendar day [start, end) containing t.
func DayWindow(t time.Time) (start, end time.Time) {
	start = dayStart(t)
	return start, start.AddDate(0, 0, 1)
}

// WeekStart returns Monday 00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return dayStart(t).AddDate(0, 0, -(wd - 1))
}

// LastDays returns [start of the day n-1 days before t, end of t's day).
func LastDays(t time.Time, n int) (start, end time.Time) {
	start, end = DayWindow(t)
	return start.AddDate(0, 0, -(n - 1)), end
}

// CivilDaysBetween counts calendar days from a to b, ignoring time of day and
// DST shifts.
func CivilDaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// parseDay reads a YYYY-MM-DD date as midnight in now's zone. An empty
// string means today.
func parseDay(s string, now Clock) (time.Time, error) {
	n := now()
	if s == "" {
		return dayStart(n), nil
	}
	d, err := time.ParseInLocation(utils.DateLayout, s, n.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return d, nil
}

// localize moves a client timestamp into now's zone so day windows line up
// with what was stored. nil or zero means now.
func localize(now time.Time, t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return t.In(now.Location())
}

func pct(actual, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return round2(actual / goal * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
