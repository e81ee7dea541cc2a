package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultDailyStepsGoal    = 10000
	DefaultDailyCaloriesGoal = 2000
	DefaultSleepGoalHours    = 8.0
)

type ActivityLevel string

const (
	Sedentary        ActivityLevel = "SEDENTARY"
	LightlyActive    ActivityLevel = "LIGHTLY_ACTIVE"
	ModeratelyActive ActivityLevel = "MODERATELY_ACTIVE"
	VeryActive       ActivityLevel = "VERY_ACTIVE"
	ExtraActive      ActivityLevel = "EXTRA_ACTIVE"
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtraActive:      1.9,
}

// Multiplier returns the TDEE multiplier for the level and false for unknown levels.
func (a ActivityLevel) Multiplier() (float64, bool) {
	m, ok := activityMultipliers[ActivityLevel(strings.ToUpper(string(a)))]
	return m, ok
}

// UserGoal holds each user's daily targets.
type UserGoal struct {
	UserID            uint          `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	DailyStepsGoal    int           `gorm:"not null;default:10000" json:"dailyStepsGoal"`
	DailyCaloriesGoal int           `gorm:"not null;default:2000" json:"dailyCaloriesGoal"`
	Bedtime           *string       `gorm:"size:5" json:"bedtime"` // HH:MM
	Wakeup            *string       `gorm:"size:5" json:"wakeup"`  // HH:MM
	ActivityLevel     ActivityLevel `gorm:"size:32;not null" json:"activityLevel"`
	CreatedAt         time.Time     `json:"-"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// DefaultUserGoal is what scoring and highlights use for users who never set goals.
func DefaultUserGoal() UserGoal {
	return UserGoal{
		DailyStepsGoal:    DefaultDailyStepsGoal,
		DailyCaloriesGoal: DefaultDailyCaloriesGoal,
	}
}

// SleepGoalHours derives the sleep goal from bedtime and wakeup, wrapping past
// midnight. Falls back to 8h when either is missing or malformed.
func (g UserGoal) SleepGoalHours() float64 {
	if g.Bedtime == nil || g.Wakeup == nil {
		return DefaultSleepGoalHours
	}
	bed, err := ParseClock(*g.Bedtime)
	if err != nil {
		return DefaultSleepGoalHours
	}
	wake, err := ParseClock(*g.Wakeup)
	if err != nil {
		return DefaultSleepGoalHours
	}
	minutes := wake - bed
	if minutes < 0 {
		minutes += 24 * 60
	}
	return float64(minutes) / 60.0
}

// ParseClock parses "HH:MM" (or "HH:MM:SS") into minutes after midnight.
func ParseClock(s string) (int, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
}
