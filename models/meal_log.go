package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type MealType string

const (
	Breakfast MealType = "BREAKFAST"
	Lunch     MealType = "LUNCH"
	Dinner    MealType = "DINNER"
	Snack     MealType = "SNACK"
)

func ParseMealType(s string) (MealType, bool) {
	switch m := MealType(strings.ToUpper(strings.TrimSpace(s))); m {
	case Breakfast, Lunch, Dinner, Snack:
		return m, true
	}
	return "", false
}

// One logged meal with its nutrition snapshot
type MealLog struct {
	gorm.Model
	UserID        uint      `gorm:"index:idx_meal_logs_user_time,priority:1;not null" json:"-"`
	MealName      string    `json:"mealName"`
	MealType      MealType  `gorm:"size:16" json:"mealType"`
	TotalCalories float64   `json:"totalCalories"`
	FatGrams      float64   `json:"fatGrams"`
	ProteinGrams  float64   `json:"proteinGrams"`
	CarbsGrams    float64   `json:"carbsGrams"`
	LoggedAt      time.Time `gorm:"index:idx_meal_logs_user_time,priority:2;not null" json:"loggedAt"`
}
