package services

import (
	"testing"
	"time"

	"github.com/healthtrack/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileNutrition(t *testing.T) {
	loc := time.UTC
	breakfast := time.Date(2025, 3, 4, 8, 0, 0, 0, loc)
	lunch := time.Date(2025, 3, 4, 12, 30, 0, 0, loc)
	rows := []models.MealLog{
		{TotalCalories: 200.4, LoggedAt: lunch},
		{TotalCalories: 299.8, LoggedAt: breakfast},
	}

	t.Run("zero aggregate falls back to rows", func(t *testing.T) {
		got := ReconcileNutrition(AggregateRow{Total: 0.0}, rows, loc)
		assert.Equal(t, 500, got.TotalKcal)
		require.NotNil(t, got.LastLoggedAt)
		assert.Equal(t, lunch, *got.LastLoggedAt)
	})

	t.Run("aggregate preferred and truncated", func(t *testing.T) {
		agg := AggregateRow{Total: 612.9, LastLoggedAt: breakfast}
		got := ReconcileNutrition(agg, rows, loc)
		assert.Equal(t, 612, got.TotalKcal)
		assert.Equal(t, breakfast, *got.LastLoggedAt)
	})

	t.Run("missing aggregate timestamp filled from rows", func(t *testing.T) {
		got := ReconcileNutrition(AggregateRow{Total: int64(500)}, rows, loc)
		assert.Equal(t, 500, got.TotalKcal)
		assert.Equal(t, lunch, *got.LastLoggedAt)
	})

	t.Run("nothing logged", func(t *testing.T) {
		got := ReconcileNutrition(AggregateRow{}, nil, loc)
		assert.Equal(t, 0, got.TotalKcal)
		assert.Nil(t, got.LastLoggedAt)
	})

	t.Run("unparseable aggregate treated as zero", func(t *testing.T) {
		got := ReconcileNutrition(AggregateRow{Total: "NaN?", LastLoggedAt: "garbage"}, rows, loc)
		assert.Equal(t, 500, got.TotalKcal)
		assert.Equal(t, lunch, *got.LastLoggedAt)
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 12.5, 12.5},
		{"int64", int64(7), 7},
		{"bytes", []byte("431.25"), 431.25},
		{"string with spaces", " 90 ", 90},
		{"bad string", "abc", 0},
		{"unsupported", struct{}{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNumber(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	want := time.Date(2025, 3, 4, 12, 30, 15, 0, loc)

	for _, in := range []any{
		want,
		&want,
		"2025-03-04 12:30:15+07:00",
		[]byte("2025-03-04T12:30:15+07:00"),
		"2025-03-04 12:30:15",
	} {
		got, ok := parseTimestamp(in, loc)
		require.True(t, ok, "%v", in)
		assert.True(t, want.Equal(got), "%v parsed as %v", in, got)
	}

	_, ok := parseTimestamp(nil, loc)
	assert.False(t, ok)
	_, ok = parseTimestamp("", loc)
	assert.False(t, ok)
	_, ok = parseTimestamp(time.Time{}, loc)
	assert.False(t, ok)
}
