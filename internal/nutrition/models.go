// Package nutrition holds the calculation core: metabolic targets, meal-type
// standards, nutrition scoring and meal evaluation.
//
// Everything in this package is a pure function of its inputs except the
// StandardCache, which memoizes lookups against a StandardSource.
package nutrition

import (
	"errors"
	"time"
)

// Errors.
var (
	ErrInvalidMealType  = errors.New("invalid meal type")
	ErrStandardNotFound = errors.New("meal type standard not found")
)

// Gender of the profile owner.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel drives the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// WeightGoal is the direction the user wants their weight to move.
type WeightGoal string

const (
	GoalLose     WeightGoal = "lose"
	GoalMaintain WeightGoal = "maintain"
	GoalGain     WeightGoal = "gain"
)

// DietType selects the macro ratio triple.
type DietType string

const (
	DietBalanced    DietType = "balanced"
	DietVegetarian  DietType = "vegetarian"
	DietVegan       DietType = "vegan"
	DietPaleo       DietType = "paleo"
	DietKeto        DietType = "keto"
	DietHighProtein DietType = "high_protein"
	DietLowCarb     DietType = "low_carb"
)

// MealType is the categorical slot of a food entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealLightMeal MealType = "light_meal"
	MealDrinks    MealType = "drinks"

	// MealWeekly is a synthetic type used to review a whole week as one meal.
	MealWeekly MealType = "weekly"

	// MealOther groups entries without a meal type in reports.
	MealOther MealType = "other"
)

// MealTypes lists the user-facing meal types in display order.
func MealTypes() []MealType {
	return []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealLightMeal, MealDrinks}
}

// Valid reports whether m is one of the user-facing meal types.
func (m MealType) Valid() bool {
	for _, t := range MealTypes() {
		if t == m {
			return true
		}
	}
	return false
}

// Profile is the biometric input to the calculator.
type Profile struct {
	UserID        string        `json:"userId"`
	Gender        Gender        `json:"gender"`
	Birthdate     time.Time     `json:"birthdate"`
	HeightCm      float64       `json:"heightCm"`
	WeightKg      float64       `json:"weightKg"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Goal          WeightGoal    `json:"goal"`
	DietType      DietType      `json:"dietType"`
	DesiredWeight *float64      `json:"desiredWeightKg,omitempty"`
	GoalDuration  *int          `json:"goalDurationWeeks,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Target is the daily energy and nutrient target derived from a Profile.
type Target struct {
	UserID    string    `json:"userId"`
	BMR       float64   `json:"bmr"`
	TDEE      float64   `json:"tdee"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carb      float64   `json:"carb"`
	Fat       float64   `json:"fat"`
	Fiber     float64   `json:"fiber"`
	Water     float64   `json:"water"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Nutrients is a set of the five tracked nutrient amounts.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carb     float64 `json:"carb"`
	Fiber    float64 `json:"fiber"`
}

// Add returns the element-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Carb:     n.Carb + o.Carb,
		Fiber:    n.Fiber + o.Fiber,
	}
}

// Scale returns n with every amount multiplied by f.
func (n Nutrients) Scale(f float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Fat:      n.Fat * f,
		Carb:     n.Carb * f,
		Fiber:    n.Fiber * f,
	}
}

// Nutrients returns the target amounts for the five tracked nutrients.
func (t *Target) Nutrients() Nutrients {
	return Nutrients{
		Calories: t.Calories,
		Protein:  t.Protein,
		Fat:      t.Fat,
		Carb:     t.Carb,
		Fiber:    t.Fiber,
	}
}

// Diff holds percentage-of-target values for each nutrient.
// A nil field means the value was not available.
type Diff struct {
	Calories *int `json:"diffCalories,omitempty"`
	Protein  *int `json:"diffProtein,omitempty"`
	Fat      *int `json:"diffFat,omitempty"`
	Carb     *int `json:"diffCarb,omitempty"`
	Fiber    *int `json:"diffFiber,omitempty"`
}
