package services

import (
	"math"

	"github.com/healthtrack/backend/models"
)

// ScoredMetrics are the metric types that feed the composite health score.
var ScoredMetrics = []models.MetricType{
	models.Steps,
	models.SleepDuration,
	models.CaloriesBurned,
	models.HeartRate,
}

const (
	heartRateLow  = 60.0
	heartRateHigh = 100.0
	// heartRateSpan is how far above heartRateHigh the score reaches zero.
	heartRateSpan = 40.0
)

// ScoreMetric maps one reading to a sub-score in [0, 100]. ok is false for
// metric types that are not scored.
func ScoreMetric(metric models.MetricType, value float64, goal models.UserGoal) (score float64, ok bool) {
	switch metric {
	case models.Steps:
		score = ratioScore(value, float64(goal.DailyStepsGoal))
	case models.SleepDuration:
		score = ratioScore(value, goal.SleepGoalHours())
	case models.CaloriesBurned:
		score = ratioScore(value, float64(goal.DailyCaloriesGoal))
	case models.HeartRate:
		score = heartRateScore(value)
	default:
		return 0, false
	}
	return clampScore(score), true
}

func ratioScore(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, value/target*100)
}

func heartRateScore(bpm float64) float64 {
	switch {
	case bpm >= heartRateLow && bpm <= heartRateHigh:
		return 100
	case bpm < heartRateLow:
		return math.Max(0, bpm/heartRateLow*100)
	default:
		return math.Max(0, 100-(bpm-heartRateHigh)/heartRateSpan*100)
	}
}

func clampScore(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(100, s))
}

// CompositeScore is the floor of the mean sub-score over the scored entries,
// or 0 when none qualify.
func CompositeScore(entries []models.HealthDataEntry, goal models.UserGoal) int {
	var total float64
	var n int
	for _, e := range entries {
		s, ok := ScoreMetric(e.MetricType, e.Value, goal)
		if !ok {
			continue
		}
		total += s
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Floor(total / float64(n)))
}

// ScoreBand returns the status and message for a composite score.
func ScoreBand(score int) (status, message string) {
	switch {
	case score >= 80:
		return "excellent", "Your health is in great shape!"
	case score >= 60:
		return "good", "Your health is stable."
	case score >= 40:
		return "fair", "A little more effort will go a long way."
	default:
		return "poor", "Pay closer attention to your health."
	}
}

func healthScoreFor(entries []models.HealthDataEntry, goal models.UserGoal) models.HealthScore {
	score := CompositeScore(entries, goal)
	status, msg := ScoreBand(score)
	return models.HealthScore{Score: score, Status: status, Message: msg}
}
