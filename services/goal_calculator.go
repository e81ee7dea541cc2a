package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/healthtrack/backend/models"
)

// BMRFormula records which Mifflin-St Jeor branch produced a BMR.
type BMRFormula string

const (
	FormulaMale   BMRFormula = "male"
	FormulaFemale BMRFormula = "female"
	// FormulaFemaleDefault is the female branch taken because the gender was
	// not recognised. Callers log it.
	FormulaFemaleDefault BMRFormula = "female_default"
)

// BMR computes basal metabolic rate in kcal/day.
func BMR(m models.BodyMetrics) (float64, BMRFormula) {
	base := 10*m.WeightKg + 6.25*m.HeightCm - 5*float64(m.Age)
	switch strings.ToUpper(strings.TrimSpace(m.Gender)) {
	case "MALE":
		return base + 5, FormulaMale
	case "FEMALE":
		return base - 161, FormulaFemale
	default:
		return base - 161, FormulaFemaleDefault
	}
}

// DailyCaloriesGoal scales bmr by the activity multiplier and rounds half away
// from zero.
func DailyCaloriesGoal(bmr, multiplier float64) int {
	return int(math.Round(bmr * multiplier))
}

// CalorieGoalFor runs the whole calculation for a stored profile. A nil
// profile yields ErrProfileNotFound, missing metrics ErrProfileIncomplete and
// an unknown activity level ErrInvalidInput.
func CalorieGoalFor(p *models.UserProfile, level models.ActivityLevel, now Clock) (int, BMRFormula, error) {
	if p == nil {
		return 0, "", ErrProfileNotFound
	}
	metrics, err := p.BodyMetrics(now())
	if err != nil {
		return 0, "", err
	}
	mult, ok := level.Multiplier()
	if !ok {
		return 0, "", fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, level)
	}
	bmr, formula := BMR(metrics)
	return DailyCaloriesGoal(bmr, mult), formula, nil
}
