package utils

import (
	"errors"
	"math"
)

var ErrBMIRange = errors.New("height/weight out of plausible range")

// CalculateBMI expects height in centimeters and weight in kilograms and
// rounds to one decimal.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, ErrBMIRange
	}
	h := heightCm / 100.0
	return math.Round(weightKg/(h*h)*10) / 10, nil
}

// bmiBands are the WHO adult bands, each up to (not including) its limit.
var bmiBands = []struct {
	limit float64
	label string
}{
	{18.5, "Underweight"},
	{25, "Normal weight"},
	{30, "Overweight"},
	{35, "Obesity class I"},
	{40, "Obesity class II"},
}

func BMICategory(bmi float64) string {
	for _, b := range bmiBands {
		if bmi < b.limit {
			return b.label
		}
	}
	return "Obesity class III"
}

// BMIOf is CalculateBMI for optional profile fields. ok is false when either
// is missing or the pair is implausible.
func BMIOf(heightCm, weightKg *float64) (bmi float64, category string, ok bool) {
	if heightCm == nil || weightKg == nil {
		return 0, "", false
	}
	bmi, err := CalculateBMI(*heightCm, *weightKg)
	if err != nil {
		return 0, "", false
	}
	return bmi, BMICategory(bmi), true
}
