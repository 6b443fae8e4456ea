package nutrition

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrMissingTarget is returned when an evaluation has no daily target.
var ErrMissingTarget = errors.New("nutrition target is required")

// Evaluation labels.
const (
	RatioBalanced     = "balanced"
	RatioNearBalanced = "near balanced"
	RatioAbove        = "above recommendation"
	RatioBelow        = "below recommendation"

	CalorieBelowTarget  = "below target"
	CalorieAboveTarget  = "above target"
	CalorieWithinTarget = "within target"
	CalorieWithinLimit  = "within calorie limit"
)

// Penalties subtracted from the meal score.
const (
	penaltyCalories     = 15
	penaltyNearBalanced = 5
	penaltyOffBalance   = 10
	penaltyLowFiber     = 10
)

// defaultMealCalories is the meal target when a standard has neither a share
// nor a ceiling.
const defaultMealCalories = 200.0

// defaultDrinkVolumeMl is assumed when a drink has no volume.
const defaultDrinkVolumeMl = 100.0

// MealInput is the nutrient content of a single meal.
type MealInput struct {
	MealType  MealType  `json:"mealType"`
	Nutrients Nutrients `json:"nutrients"`

	// VolumeMl applies to drinks only.
	VolumeMl *float64 `json:"volumeMl,omitempty"`
}

// MacroEvaluation is the verdict for one nutrient.
type MacroEvaluation struct {
	Name               string  `json:"name"`
	ActualValue        float64 `json:"actualValue"`
	DailyTarget        float64 `json:"dailyTarget"`
	PercentageOfDaily  int     `json:"percentageOfDaily"`
	ActualRatioPercent *int    `json:"actualRatioPercent,omitempty"`
	TargetRatioPercent *int    `json:"targetRatioPercent,omitempty"`
	Evaluation         string  `json:"evaluation"`
	Comment            string  `json:"comment"`
}

// MealEvaluation is the result of evaluating a meal.
type MealEvaluation struct {
	MealType                  MealType                     `json:"mealType"`
	ActualCalories            int                          `json:"actualCalories"`
	TargetCalories            int                          `json:"targetCalories"`
	PercentageOfDailyCalories int                          `json:"percentageOfDailyCalories"`
	CalorieRatio              float64                      `json:"calorieRatio"`
	CalorieEvaluation         string                       `json:"calorieEvaluation"`
	CalorieComment            string                       `json:"calorieComment"`
	MacroEvaluations          map[Nutrient]MacroEvaluation `json:"macroEvaluations"`
	NutritionScore            int                          `json:"nutritionScore"`
	Strengths                 []string                     `json:"strengths"`
	Weaknesses                []string                     `json:"weaknesses"`
	Description               string                       `json:"description"`
	DailyTargets              Nutrients                    `json:"dailyTargets"`
}

// Evaluator scores meals against their meal-type standard and the daily target.
type Evaluator struct {
	standards *StandardCache
}

// NewEvaluator creates an evaluator backed by the standard cache.
func NewEvaluator(standards *StandardCache) *Evaluator {
	return &Evaluator{standards: standards}
}

// Evaluate resolves the meal's standard and evaluates it.
func (e *Evaluator) Evaluate(ctx context.Context, meal MealInput, target *Target) (*MealEvaluation, error) {
	if target == nil {
		return nil, ErrMissingTarget
	}
	std, err := e.standards.Get(ctx, meal.MealType)
	if err != nil {
		return nil, err
	}
	return EvaluateMeal(meal, std, target), nil
}

// EvaluateMeal combines the meal-type frame and the daily-target frame into one
// evaluation. The score starts at 100 and is reduced by band penalties.
func EvaluateMeal(meal MealInput, std *MealTypeStandard, target *Target) *MealEvaluation {
	actual := meal.Nutrients
	daily := target.Nutrients()
	isDrink := meal.MealType == MealDrinks

	volume := defaultDrinkVolumeMl
	if meal.VolumeMl != nil {
		volume = *meal.VolumeMl
	}

	targetMealCalories := defaultMealCalories
	switch {
	case std.PercentageBased():
		targetMealCalories = daily.Calories * (*std.CaloriePercentage / 100)
	case isDrink && std.MaxCaloriesPer100ml != nil:
		targetMealCalories = *std.MaxCaloriesPer100ml * (volume / 100)
	case std.MaxCalories != nil:
		targetMealCalories = *std.MaxCalories
	}

	pct := dailyPercentages(actual, daily)
	score := 100

	calorieRatio := 1.0
	if targetMealCalories > 0 {
		calorieRatio = actual.Calories / targetMealCalories
	}

	var calorieEvaluation string
	if std.PercentageBased() {
		switch {
		case calorieRatio < 0.8:
			calorieEvaluation = CalorieBelowTarget
			score -= penaltyCalories
		case calorieRatio > 1.2:
			calorieEvaluation = CalorieAboveTarget
			score -= penaltyCalories
		default:
			calorieEvaluation = CalorieWithinTarget
		}
	} else {
		switch {
		case std.MaxCalories != nil && actual.Calories > *std.MaxCalories:
			calorieEvaluation = fmt.Sprintf("exceeds limit (%g kcal)", *std.MaxCalories)
			score -= penaltyCalories
		case isDrink && std.MaxCaloriesPer100ml != nil && actual.Calories > *std.MaxCaloriesPer100ml*(volume/100):
			calorieEvaluation = fmt.Sprintf("exceeds drink limit (%g kcal/100ml)", *std.MaxCaloriesPer100ml)
			score -= penaltyCalories
		default:
			calorieEvaluation = CalorieWithinLimit
		}
	}

	evaluations := make(map[Nutrient]MacroEvaluation)
	if !isDrink {
		proteinKcal := actual.Protein * KcalPerGramProtein
		fatKcal := actual.Fat * KcalPerGramFat
		carbKcal := actual.Carb * KcalPerGramCarb
		macroKcal := proteinKcal + fatKcal + carbKcal

		ratioOf := func(kcal float64) float64 {
			if macroKcal <= 0 {
				return 0
			}
			return kcal / macroKcal
		}

		macros := []struct {
			nutrient    Nutrient
			name        string
			actualRatio float64
			targetRatio float64
			pct         float64
			daily       float64
			value       float64
		}{
			{NutrientCarbs, "Carbohydrate", ratioOf(carbKcal), std.Ratio.Carb, pct.Carb, daily.Carb, actual.Carb},
			{NutrientProtein, "Protein", ratioOf(proteinKcal), std.Ratio.Protein, pct.Protein, daily.Protein, actual.Protein},
			{NutrientFat, "Fat", ratioOf(fatKcal), std.Ratio.Fat, pct.Fat, daily.Fat, actual.Fat},
		}

		for _, m := range macros {
			var evaluation string
			diff := math.Abs(m.actualRatio - m.targetRatio)
			switch {
			case diff < 0.05:
				evaluation = RatioBalanced
			case diff < 0.1:
				evaluation = RatioNearBalanced
				score -= penaltyNearBalanced
			default:
				if m.actualRatio > m.targetRatio {
					evaluation = RatioAbove
				} else {
					evaluation = RatioBelow
				}
				score -= penaltyOffBalance
			}

			evaluations[m.nutrient] = MacroEvaluation{
				Name:               m.name,
				ActualValue:        roundTo(m.value, 1),
				DailyTarget:        roundTo(m.daily, 1),
				PercentageOfDaily:  int(math.Round(m.pct)),
				ActualRatioPercent: intPtr(int(math.Round(m.actualRatio * 100))),
				TargetRatioPercent: intPtr(int(math.Round(m.targetRatio * 100))),
				Evaluation:         evaluation,
				Comment:            CommentFor(m.nutrient, m.pct),
			}
		}

		var fiberEvaluation string
		switch {
		case pct.Fiber < 70:
			fiberEvaluation = RatioBelow
			score -= penaltyLowFiber
		case pct.Fiber > 130:
			fiberEvaluation = RatioAbove
		default:
			fiberEvaluation = RatioBalanced
		}
		evaluations[NutrientFiber] = MacroEvaluation{
			Name:              "Fiber",
			ActualValue:       roundTo(actual.Fiber, 1),
			DailyTarget:       roundTo(daily.Fiber, 1),
			PercentageOfDaily: int(math.Round(pct.Fiber)),
			Evaluation:        fiberEvaluation,
			Comment:           CommentFor(NutrientFiber, pct.Fiber),
		}
	}

	diff := &Diff{
		Calories: intPtr(int(math.Round(pct.Calories))),
		Protein:  intPtr(int(math.Round(pct.Protein))),
		Fat:      intPtr(int(math.Round(pct.Fat))),
		Carb:     intPtr(int(math.Round(pct.Carb))),
		Fiber:    intPtr(int(math.Round(pct.Fiber))),
	}

	return &MealEvaluation{
		MealType:                  meal.MealType,
		ActualCalories:            int(math.Round(actual.Calories)),
		TargetCalories:            int(math.Round(targetMealCalories)),
		PercentageOfDailyCalories: int(math.Round(pct.Calories)),
		CalorieRatio:              roundTo(calorieRatio, 2),
		CalorieEvaluation:         calorieEvaluation,
		CalorieComment:            CommentFor(NutrientCalories, pct.Calories),
		MacroEvaluations:          evaluations,
		NutritionScore:            clampScore(score),
		Strengths:                 Strengths(diff),
		Weaknesses:                Weaknesses(diff),
		Description:               std.Description,
		DailyTargets: Nutrients{
			Calories: math.Round(daily.Calories),
			Protein:  math.Round(daily.Protein),
			Fat:      math.Round(daily.Fat),
			Carb:     math.Round(daily.Carb),
			Fiber:    math.Round(daily.Fiber),
		},
	}
}

// dailyPercentages returns unrounded percentages of the daily target, 0 where
// the target is 0.
func dailyPercentages(actual, daily Nutrients) Nutrients {
	pct := func(a, t float64) float64 {
		if t <= 0 {
			return 0
		}
		return a / t * 100
	}
	return Nutrients{
		Calories: pct(actual.Calories, daily.Calories),
		Protein:  pct(actual.Protein, daily.Protein),
		Fat:      pct(actual.Fat, daily.Fat),
		Carb:     pct(actual.Carb, daily.Carb),
		Fiber:    pct(actual.Fiber, daily.Fiber),
	}
}
