package models

import (
	"errors"
	"time"
)

// ErrProfileIncomplete is returned when a profile lacks the body metrics
// needed for calorie calculations.
var ErrProfileIncomplete = errors.New("profile is missing weight, height or date of birth")

// UserProfile holds per-user physical attributes. A user without a profile row
// is represented by a nil *UserProfile, never by a zero value.
type UserProfile struct {
	UserID      uint       `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	DateOfBirth *time.Time `gorm:"type:date" json:"dateOfBirth"`
	HeightCm    *float64   `json:"heightCm"`
	WeightKg    *float64   `json:"weightKg"`
	Gender      string     `gorm:"size:16" json:"gender"`
	Avatar      string     `gorm:"type:text" json:"avatar"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BodyMetrics is the validated input of the BMR formula.
type BodyMetrics struct {
	WeightKg float64
	HeightCm float64
	Age      int
	Gender   string
}

// BodyMetrics extracts the calorie-calculation inputs, computing age at now.
func (p *UserProfile) BodyMetrics(now time.Time) (BodyMetrics, error) {
	if p.WeightKg == nil || p.HeightCm == nil || p.DateOfBirth == nil {
		return BodyMetrics{}, ErrProfileIncomplete
	}
	if *p.WeightKg <= 0 || *p.HeightCm <= 0 {
		return BodyMetrics{}, ErrProfileIncomplete
	}
	return BodyMetrics{
		WeightKg: *p.WeightKg,
		HeightCm: *p.HeightCm,
		Age:      AgeAt(*p.DateOfBirth, now),
		Gender:   p.Gender,
	}, nil
}

// AgeAt returns the number of whole years between dob and now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
