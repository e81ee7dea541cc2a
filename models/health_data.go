package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type MetricType string

const (
	Steps             MetricType = "STEPS"
	SleepDuration     MetricType = "SLEEP_DURATION"
	DeepSleepDuration MetricType = "DEEP_SLEEP_DURATION"
	CaloriesBurned    MetricType = "CALORIES_BURNED"
	HeartRate         MetricType = "HEART_RATE"
	BodyMassIndex     MetricType = "BODY_MASS_INDEX"
	WaterIntake       MetricType = "WATER_INTAKE"
	WorkoutDuration   MetricType = "WORKOUT_DURATION"
)

var metricTypes = []MetricType{
	Steps, SleepDuration, DeepSleepDuration, CaloriesBurned,
	HeartRate, BodyMassIndex, WaterIntake, WorkoutDuration,
}

// ParseMetricType accepts any casing of a known metric name.
func ParseMetricType(s string) (MetricType, bool) {
	up := MetricType(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range metricTypes {
		if m == up {
			return m, true
		}
	}
	return "", false
}

// HealthDataEntry is one reading. "Latest" queries order by RecordedAt DESC.
type HealthDataEntry struct {
	gorm.Model
	UserID     uint       `gorm:"index:idx_health_data_user_time,priority:1;not null" json:"userId"`
	MetricType MetricType `gorm:"size:32;index;not null" json:"metricType"`
	Value      float64    `json:"value"`
	Unit       string     `gorm:"size:32" json:"unit"`
	RecordedAt time.Time  `gorm:"index:idx_health_data_user_time,priority:2,sort:desc;not null" json:"recordedAt"`
}
