package models

import (
	"time"

	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// IngredientInput is one ingredient of a food entry request.
type IngredientInput struct {
	Name     string       `json:"name"`
	Quantity float64      `json:"quantity"`
	Unit     string       `json:"unit"`
	Per100   food.Density `json:"per100"`
}

// FoodEntryInput is the body of POST /v1/me/foods and PUT /v1/me/foods/{foodId}.
type FoodEntryInput struct {
	Name        string             `json:"name"`
	MealType    nutrition.MealType `json:"mealType,omitempty"`
	EatingTime  *time.Time         `json:"eatingTime,omitempty"`
	Description string             `json:"description,omitempty"`
	VolumeMl    *float64           `json:"volumeMl,omitempty"`
	Ingredients []IngredientInput  `json:"ingredients"`

	// Totals is only read when Ingredients is empty.
	Totals *nutrition.Nutrients `json:"totals,omitempty"`
}

// ToEntryInput converts the request to a food service input. A missing
// eating time is left zero for the service to fill in.
func (in *FoodEntryInput) ToEntryInput() *food.EntryInput {
	out := &food.EntryInput{
		Name:        in.Name,
		MealType:    in.MealType,
		Description: in.Description,
		VolumeMl:    in.VolumeMl,
		Ingredients: make([]food.Ingredient, 0, len(in.Ingredients)),
	}
	if in.EatingTime != nil {
		out.EatingTime = *in.EatingTime
	}
	if in.Totals != nil {
		out.Totals = *in.Totals
	}
	for _, ing := range in.Ingredients {
		out.Ingredients = append(out.Ingredients, food.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Per100:   ing.Per100,
		})
	}
	return out
}

// FoodEntryList is the response of GET /v1/me/foods.
type FoodEntryList struct {
	Items []*food.Entry `json:"items"`
}

// ComparisonList is the response of GET /v1/me/foods/{foodId}/comparisons.
type ComparisonList struct {
	Items []*comparison.Comparison `json:"items"`
}
