package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/healthtrack/backend/models"
)

// AggregateRow is the raw result of SUM(total_calories), MAX(logged_at). The
// values are whatever the driver produced: numbers may arrive as float64,
// int64, []byte or string, timestamps as time.Time or text.
type AggregateRow struct {
	Total        any
	LastLoggedAt any
}

// DailyNutrition is the reconciled calorie total for one day.
type DailyNutrition struct {
	TotalKcal    int
	LastLoggedAt *time.Time
}

// timestampLayouts covers the text forms postgres and sqlite return for MAX()
// over a timestamp column.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// ReconcileNutrition prefers the aggregate. When the aggregate total is zero
// but the rows add up to something positive, the fold wins on both total and
// last update; a missing aggregate timestamp is filled from the fold.
func ReconcileNutrition(agg AggregateRow, rows []models.MealLog, loc *time.Location) DailyNutrition {
	var foldTotal float64
	var foldLast *time.Time
	for i := range rows {
		foldTotal += rows[i].TotalCalories
		at := rows[i].LoggedAt
		if at.IsZero() {
			continue
		}
		if foldLast == nil || at.After(*foldLast) {
			foldLast = &at
		}
	}

	out := DailyNutrition{TotalKcal: int(parseNumber(agg.Total))}
	if ts, ok := parseTimestamp(agg.LastLoggedAt, loc); ok {
		out.LastLoggedAt = &ts
	}

	if out.TotalKcal == 0 && foldTotal > 0 {
		out.TotalKcal = int(math.Round(foldTotal))
		if foldLast != nil {
			out.LastLoggedAt = foldLast
		}
	}
	if out.LastLoggedAt == nil {
		out.LastLoggedAt = foldLast
	}
	return out
}

// parseNumber reads a driver value as float64, yielding 0 for nil or anything
// unparseable.
func parseNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case uint64:
		return float64(n)
	case []byte:
		return parseNumberString(string(n))
	case string:
		return parseNumberString(n)
	default:
		return 0
	}
}

func parseNumberString(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseTimestamp reads a driver timestamp. Text without an offset is taken to
// be in loc.
func parseTimestamp(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case []byte:
		return parseTimestampString(string(t), loc)
	case string:
		return parseTimestampString(t, loc)
	default:
		return time.Time{}, false
	}
}

func parseTimestampString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
