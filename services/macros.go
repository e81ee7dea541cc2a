package services

import "math"

// Default macro split of a meal's calories and energy per gram.
const (
	fatShare     = 0.30
	proteinShare = 0.30
	carbsShare   = 0.40

	kcalPerGramFat     = 9.0
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0

	// macroTolerance is the relative gap between stated calories and the
	// macro-derived figure above which the macro figure wins.
	macroTolerance = 0.05
)

// NutritionInput carries what the client sent; nil means "not provided".
type NutritionInput struct {
	Calories *float64
	Fat      *float64
	Protein  *float64
	Carbs    *float64
}

func (in NutritionInput) empty() bool {
	return in.Calories == nil && in.Fat == nil && in.Protein == nil && in.Carbs == nil
}

// Nutrition is a fully resolved meal.
type Nutrition struct {
	Calories float64
	Fat      float64
	Protein  float64
	Carbs    float64
}

type macro struct {
	grams       *float64
	share       float64
	kcalPerGram float64
}

// ResolveNutrition completes partial input. Macros alone determine calories;
// calories alone are split 30/30/40; calories with some macros scale the given
// macros down to fit and spread what is left over the missing ones by their
// default share. When the result disagrees with the stated calories by more
// than 5%, the macro-derived calories are kept. Grams never go negative.
func ResolveNutrition(in NutritionInput) Nutrition {
	fat, protein, carbs := copyPtr(in.Fat), copyPtr(in.Protein), copyPtr(in.Carbs)
	macros := []macro{
		{fat, fatShare, kcalPerGramFat},
		{protein, proteinShare, kcalPerGramProtein},
		{carbs, carbsShare, kcalPerGramCarbs},
	}

	if in.Calories == nil {
		if in.empty() {
			return Nutrition{}
		}
		return Nutrition{
			Calories: macroKcal(macros),
			Fat:      nonNeg(fat),
			Protein:  nonNeg(protein),
			Carbs:    nonNeg(carbs),
		}
	}

	calories := *in.Calories
	used := macroKcal(macros)
	remaining := calories - used
	if remaining < 0 {
		factor := 0.0
		if used > 0 {
			factor = calories / used
		}
		for _, m := range macros {
			if m.grams != nil {
				*m.grams *= factor
			}
		}
		remaining = 0
	}

	var missingShare float64
	for _, m := range macros {
		if m.grams == nil {
			missingShare += m.share
		}
	}
	if missingShare > 0 {
		for i := range macros {
			m := &macros[i]
			if m.grams != nil {
				continue
			}
			g := remaining * m.share / missingShare / m.kcalPerGram
			m.grams = &g
		}
	}
	fat, protein, carbs = macros[0].grams, macros[1].grams, macros[2].grams

	derived := macroKcal(macros)
	if calories > 0 && math.Abs(derived-calories)/calories > macroTolerance {
		calories = derived
	}
	return Nutrition{
		Calories: calories,
		Fat:      nonNeg(fat),
		Protein:  nonNeg(protein),
		Carbs:    nonNeg(carbs),
	}
}

func macroKcal(ms []macro) float64 {
	var total float64
	for _, m := range ms {
		if m.grams != nil {
			total += *m.grams * m.kcalPerGram
		}
	}
	return total
}

func copyPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nonNeg(p *float64) float64 {
	if p == nil {
		return 0
	}
	return math.Max(0, *p)
}
