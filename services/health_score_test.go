package services

import (
	"testing"

	"github.com/healthtrack/backend/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestScoreMetricBounds(t *testing.T) {
	goals := []models.UserGoal{
		models.DefaultUserGoal(),
		{DailyStepsGoal: 0, DailyCaloriesGoal: 0},
		{DailyStepsGoal: 5000, DailyCaloriesGoal: 500, Bedtime: strPtr("23:00"), Wakeup: strPtr("06:30")},
	}
	values := []float64{-50, 0, 1, 59.9, 60, 99, 100, 140, 141, 1e6}

	for _, g := range goals {
		for _, m := range ScoredMetrics {
			for _, v := range values {
				s, ok := ScoreMetric(m, v, g)
				assert.True(t, ok)
				assert.GreaterOrEqual(t, s, 0.0, "%s=%v", m, v)
				assert.LessOrEqual(t, s, 100.0, "%s=%v", m, v)
			}
		}
	}
}

func TestHeartRateScore(t *testing.T) {
	g := models.DefaultUserGoal()
	score := func(v float64) float64 {
		s, _ := ScoreMetric(models.HeartRate, v, g)
		return s
	}

	assert.Equal(t, 100.0, score(80))
	assert.Equal(t, 100.0, score(60))
	assert.Equal(t, 100.0, score(100))
	assert.Equal(t, 66, int(score(40)))
	assert.Equal(t, 50.0, score(120))
	assert.Equal(t, 0.0, score(140))
	assert.Equal(t, 0.0, score(180))
}

func TestScoreMetricRules(t *testing.T) {
	g := models.UserGoal{DailyStepsGoal: 8000, DailyCaloriesGoal: 400, Bedtime: strPtr("22:00"), Wakeup: strPtr("04:00")}

	s, _ := ScoreMetric(models.Steps, 4000, g)
	assert.Equal(t, 50.0, s)

	s, _ = ScoreMetric(models.Steps, 20000, g)
	assert.Equal(t, 100.0, s)

	// 22:00 to 04:00 wraps midnight: 6h goal.
	s, _ = ScoreMetric(models.SleepDuration, 3, g)
	assert.Equal(t, 50.0, s)

	s, _ = ScoreMetric(models.CaloriesBurned, 100, g)
	assert.Equal(t, 25.0, s)

	s, _ = ScoreMetric(models.Steps, 100, models.UserGoal{})
	assert.Equal(t, 0.0, s)

	_, ok := ScoreMetric(models.WaterIntake, 2, g)
	assert.False(t, ok)
}

func TestCompositeScore(t *testing.T) {
	g := models.DefaultUserGoal()

	assert.Equal(t, 0, CompositeScore(nil, g))

	entries := []models.HealthDataEntry{
		{MetricType: models.Steps, Value: 5000},       // 50
		{MetricType: models.HeartRate, Value: 70},     // 100
		{MetricType: models.SleepDuration, Value: 6},  // 75
		{MetricType: models.WaterIntake, Value: 2000}, // not scored
	}
	assert.Equal(t, 75, CompositeScore(entries, g))

	// floor, not round
	entries = []models.HealthDataEntry{
		{MetricType: models.HeartRate, Value: 40},
		{MetricType: models.HeartRate, Value: 80},
	}
	assert.Equal(t, 83, CompositeScore(entries, g))

	only := []models.HealthDataEntry{{MetricType: models.BodyMassIndex, Value: 22}}
	assert.Equal(t, 0, CompositeScore(only, g))
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "excellent"}, {80, "excellent"}, {79, "good"}, {60, "good"},
		{59, "fair"}, {40, "fair"}, {39, "poor"}, {0, "poor"},
	}
	for _, tt := range tests {
		status, msg := ScoreBand(tt.score)
		assert.Equal(t, tt.want, status, "score %d", tt.score)
		assert.NotEmpty(t, msg)
	}
}
