package nutrition

import (
	"fmt"
	"math"
)

// MealTypeStandard is the reference profile for one meal type.
type MealTypeStandard struct {
	MealType MealType `json:"mealType"`

	// CaloriePercentage is the share of the daily calorie target, nil for
	// ceiling-based types.
	CaloriePercentage *float64 `json:"caloriePercentage,omitempty"`

	Ratio MacroRatio `json:"ratio"`

	// MaxCalories is the absolute ceiling for snack and light_meal.
	MaxCalories *float64 `json:"maxCalories,omitempty"`

	// MaxCaloriesPer100ml is the ceiling for drinks.
	MaxCaloriesPer100ml *float64 `json:"maxCaloriesPer100ml,omitempty"`

	Description string `json:"description"`
}

// PercentageBased reports whether the standard is judged against a share of
// the daily target.
func (s *MealTypeStandard) PercentageBased() bool {
	return s.CaloriePercentage != nil
}

// Clone returns a deep copy of s.
func (s *MealTypeStandard) Clone() *MealTypeStandard {
	c := *s
	c.CaloriePercentage = cloneFloat(s.CaloriePercentage)
	c.MaxCalories = cloneFloat(s.MaxCalories)
	c.MaxCaloriesPer100ml = cloneFloat(s.MaxCaloriesPer100ml)
	return &c
}

// Validate checks the standard for internal consistency.
func (s *MealTypeStandard) Validate() []FieldError {
	var errs []FieldError

	if !s.MealType.Valid() {
		errs = append(errs, FieldError{Field: "mealType", Message: "is not a known meal type"})
	}
	if s.MealType != MealDrinks {
		sum := s.Ratio.Carb + s.Ratio.Protein + s.Ratio.Fat
		if math.Abs(sum-1) > 0.001 {
			errs = append(errs, FieldError{Field: "ratio", Message: fmt.Sprintf("must sum to 100%%, got %.1f%%", sum*100)})
		}
	}
	if s.Ratio.Carb < 0 || s.Ratio.Protein < 0 || s.Ratio.Fat < 0 {
		errs = append(errs, FieldError{Field: "ratio", Message: "must not be negative"})
	}
	if s.CaloriePercentage != nil && (*s.CaloriePercentage <= 0 || *s.CaloriePercentage > 100) {
		errs = append(errs, FieldError{Field: "caloriePercentage", Message: "must be between 0 and 100"})
	}
	if s.CaloriePercentage == nil && s.MaxCalories == nil && s.MaxCaloriesPer100ml == nil {
		errs = append(errs, FieldError{Field: "caloriePercentage", Message: "a percentage or a calorie ceiling is required"})
	}
	if s.MaxCalories != nil && *s.MaxCalories < 0 {
		errs = append(errs, FieldError{Field: "maxCalories", Message: "must not be negative"})
	}
	if s.MaxCaloriesPer100ml != nil && *s.MaxCaloriesPer100ml < 0 {
		errs = append(errs, FieldError{Field: "maxCaloriesPer100ml", Message: "must not be negative"})
	}

	return errs
}

// DefaultStandards returns the built-in standard table.
func DefaultStandards() map[MealType]*MealTypeStandard {
	return map[MealType]*MealTypeStandard{
		MealBreakfast: {
			MealType:          MealBreakfast,
			CaloriePercentage: floatPtr(25),
			Ratio:             MacroRatio{Carb: 0.35, Protein: 0.30, Fat: 0.35},
			Description:       "Breakfast should supply about a quarter of the day's energy with enough protein and fat to stay full until lunch.",
		},
		MealLunch: {
			MealType:          MealLunch,
			CaloriePercentage: floatPtr(40),
			Ratio:             MacroRatio{Carb: 0.40, Protein: 0.30, Fat: 0.30},
			Description:       "Lunch is the main meal of the day and should provide about 40% of daily energy, carbohydrate-led for the afternoon.",
		},
		MealDinner: {
			MealType:          MealDinner,
			CaloriePercentage: floatPtr(35),
			Ratio:             MacroRatio{Carb: 0.25, Protein: 0.35, Fat: 0.40},
			Description:       "Dinner should be lighter on carbohydrates and rich in protein, covering about 35% of daily energy.",
		},
		MealSnack: {
			MealType:    MealSnack,
			Ratio:       MacroRatio{Carb: 0.45, Protein: 0.30, Fat: 0.25},
			MaxCalories: floatPtr(200),
			Description: "A snack bridges main meals and should stay under 200 kcal.",
		},
		MealLightMeal: {
			MealType:    MealLightMeal,
			Ratio:       MacroRatio{Carb: 0.50, Protein: 0.40, Fat: 0.10},
			MaxCalories: floatPtr(250),
			Description: "A light meal is a small, low-fat meal of at most 250 kcal.",
		},
		MealDrinks: {
			MealType:            MealDrinks,
			MaxCaloriesPer100ml: floatPtr(20),
			Description:         "Drinks should be low in energy, at most 20 kcal per 100 ml.",
		},
	}
}

// WeeklyStandard is the synthetic standard used to review a week of intake
// as a single meal.
func WeeklyStandard() *MealTypeStandard {
	return &MealTypeStandard{
		MealType:          MealWeekly,
		CaloriePercentage: floatPtr(100),
		Ratio:             MacroRatio{Carb: 0.40, Protein: 0.30, Fat: 0.30},
		Description:       "Average daily intake over the week.",
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
