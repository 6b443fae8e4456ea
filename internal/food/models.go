package food

import (
	"time"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Density is the nutrient content per 100 units (g or ml) of an ingredient.
type Density struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carb    float64 `json:"carb"`
	Fiber   float64 `json:"fiber"`
}

// Ingredient is one component of a food entry.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Per100   Density `json:"per100"`

	// Contribution is Per100 scaled to Quantity. It is derived, never input.
	Contribution nutrition.Nutrients `json:"contribution"`
}

// Entry is a logged dish or meal.
type Entry struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Name        string             `json:"name"`
	MealType    nutrition.MealType `json:"mealType,omitempty"`
	EatingTime  time.Time          `json:"eatingTime"`
	Description string             `json:"description,omitempty"`

	// VolumeMl is the serving volume of a drink.
	VolumeMl *float64 `json:"volumeMl,omitempty"`

	Ingredients []Ingredient        `json:"ingredients"`
	Totals      nutrition.Nutrients `json:"totals"`

	// NutritionScore is set when the user had a target at write time.
	NutritionScore *int `json:"nutritionScore,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryInput is the writable part of an entry.
type EntryInput struct {
	Name        string
	MealType    nutrition.MealType
	EatingTime  time.Time
	Description string
	VolumeMl    *float64
	Ingredients []Ingredient

	// Totals are used only when Ingredients is empty, for entries created
	// from a recognition result that carries no breakdown. Calories is
	// always recomputed from the macros.
	Totals nutrition.Nutrients
}

// MealFood is one entry in a meal calorie summary.
type MealFood struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// MealCalories sums the entries of one meal type on one day.
type MealCalories struct {
	Date     string              `json:"date"`
	MealType nutrition.MealType  `json:"mealType"`
	Totals   nutrition.Nutrients `json:"totals"`
	Foods    []MealFood          `json:"foods"`
}

// DayWindow returns the inclusive window [D 00:00, D 23:59:59.999999] of the
// UTC calendar day containing d.
func DayWindow(d time.Time) (time.Time, time.Time) {
	y, m, day := d.UTC().Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Microsecond)
	return start, end
}

// DateKey formats t as the YYYY-MM-DD key of its UTC day.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func copyEntry(e *Entry) *Entry {
	cpy := *e
	if e.VolumeMl != nil {
		v := *e.VolumeMl
		cpy.VolumeMl = &v
	}
	if e.NutritionScore != nil {
		v := *e.NutritionScore
		cpy.NutritionScore = &v
	}
	cpy.Ingredients = append([]Ingredient(nil), e.Ingredients...)
	return &cpy
}
