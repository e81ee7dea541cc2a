package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	start, end := DayWindow(time.Date(2025, 3, 4, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, loc), end)
}

func TestWeekStart(t *testing.T) {
	loc := time.UTC
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, loc)

	for _, d := range []time.Time{
		monday,
		time.Date(2025, 3, 5, 14, 0, 0, 0, loc), // Wednesday
		time.Date(2025, 3, 9, 23, 0, 0, 0, loc), // Sunday
	} {
		assert.Equal(t, monday, WeekStart(d), d.Weekday().String())
	}
}

func TestLastDays(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	start, end := LastDays(now, WeeklyListingDays)
	assert.Equal(t, time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), end)
}

func TestCivilDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 3, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 28, CivilDaysBetween(a, b))
	assert.Equal(t, -28, CivilDaysBetween(b, a))
	assert.Equal(t, 0, CivilDaysBetween(a, a))
}

func TestPct(t *testing.T) {
	assert.Equal(t, 50.0, pct(5000, 10000))
	assert.Equal(t, 33.33, pct(1, 3))
	assert.Equal(t, 0.0, pct(10, 0))
}

func TestParseDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := func() time.Time { return time.Date(2025, 3, 5, 22, 0, 0, 0, loc) }

	d, err := parseDay("2025-03-01", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), d)

	d, err = parseDay("", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, loc), d)

	_, err = parseDay("03/01/2025", now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
