package food

import "github.com/nutrilog/nutrilog/internal/nutrition"

// IngredientCalories returns the energy of the given macro grams.
func IngredientCalories(protein, fat, carb float64) float64 {
	return protein*nutrition.KcalPerGramProtein + fat*nutrition.KcalPerGramFat + carb*nutrition.KcalPerGramCarb
}

// ComputeDish fills each ingredient's contribution and returns the entry
// totals as their sum.
func ComputeDish(ingredients []Ingredient) ([]Ingredient, nutrition.Nutrients) {
	out := make([]Ingredient, len(ingredients))
	var totals nutrition.Nutrients

	for i, ing := range ingredients {
		f := ing.Quantity / 100
		c := nutrition.Nutrients{
			Protein: ing.Per100.Protein * f,
			Fat:     ing.Per100.Fat * f,
			Carb:    ing.Per100.Carb * f,
			Fiber:   ing.Per100.Fiber * f,
		}
		c.Calories = IngredientCalories(c.Protein, c.Fat, c.Carb)

		ing.Contribution = c
		out[i] = ing
		totals = totals.Add(c)
	}

	return out, totals
}
