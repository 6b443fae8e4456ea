package nutrition_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

func referenceTarget() *nutrition.Target {
	return &nutrition.Target{
		UserID:   "usr_ref",
		Calories: 2914,
		Protein:  146,
		Carb:     364,
		Fat:      97,
		Fiber:    38,
	}
}

func newEvaluator() *nutrition.Evaluator {
	return nutrition.NewEvaluator(nutrition.NewStandardCache(nutrition.StandardCacheConfig{
		Logger: zerolog.Nop(),
	}))
}

func TestEvaluateMeal_BalancedLunch(t *testing.T) {
	meal := nutrition.MealInput{
		MealType:  nutrition.MealLunch,
		Nutrients: nutrition.Nutrients{Calories: 1200, Protein: 90, Fat: 40, Carb: 120, Fiber: 30},
	}

	eval, err := newEvaluator().Evaluate(context.Background(), meal, referenceTarget())
	require.NoError(t, err)

	assert.Equal(t, 100, eval.NutritionScore)
	assert.Equal(t, 1200, eval.ActualCalories)
	assert.Equal(t, 1166, eval.TargetCalories)
	assert.Equal(t, 41, eval.PercentageOfDailyCalories)
	assert.Equal(t, 1.03, eval.CalorieRatio)
	assert.Equal(t, nutrition.CalorieWithinTarget, eval.CalorieEvaluation)

	require.Len(t, eval.MacroEvaluations, 4)
	carbs := eval.MacroEvaluations[nutrition.NutrientCarbs]
	assert.Equal(t, nutrition.RatioBalanced, carbs.Evaluation)
	require.NotNil(t, carbs.ActualRatioPercent)
	assert.Equal(t, 40, *carbs.ActualRatioPercent)
	assert.Equal(t, 40, *carbs.TargetRatioPercent)
	assert.Equal(t, 33, carbs.PercentageOfDaily)
	assert.Equal(t, nutrition.NutrientComment(nutrition.NutrientCarbs, nutrition.BandDeficientHigh), carbs.Comment)

	fiber := eval.MacroEvaluations[nutrition.NutrientFiber]
	assert.Equal(t, nutrition.RatioBalanced, fiber.Evaluation)
	assert.Nil(t, fiber.ActualRatioPercent)

	assert.Equal(t, []string{"Low fat content", "Low calorie option"}, eval.Strengths)
	assert.Equal(t, []string{"Low protein content", "Low carbohydrate content"}, eval.Weaknesses)
	assert.Equal(t, 2914.0, eval.DailyTargets.Calories)
	assert.NotEmpty(t, eval.Description)
}

func TestEvaluateMeal_SnackOverCeiling(t *testing.T) {
	meal := nutrition.MealInput{
		MealType:  nutrition.MealSnack,
		Nutrients: nutrition.Nutrients{Calories: 300, Protein: 10, Fat: 20, Carb: 20},
	}

	eval, err := newEvaluator().Evaluate(context.Background(), meal, referenceTarget())
	require.NoError(t, err)

	assert.Equal(t, "exceeds limit (200 kcal)", eval.CalorieEvaluation)
	assert.Equal(t, 200, eval.TargetCalories)
	assert.Equal(t, nutrition.RatioBelow, eval.MacroEvaluations[nutrition.NutrientCarbs].Evaluation)
	assert.Equal(t, nutrition.RatioBelow, eval.MacroEvaluations[nutrition.NutrientProtein].Evaluation)
	assert.Equal(t, nutrition.RatioAbove, eval.MacroEvaluations[nutrition.NutrientFat].Evaluation)
	assert.Equal(t, nutrition.RatioBelow, eval.MacroEvaluations[nutrition.NutrientFiber].Evaluation)
	// 100 - 15 (ceiling) - 3*10 (ratios) - 10 (fiber)
	assert.Equal(t, 45, eval.NutritionScore)
}

func TestEvaluateMeal_Drinks(t *testing.T) {
	volume := 250.0
	meal := nutrition.MealInput{
		MealType:  nutrition.MealDrinks,
		Nutrients: nutrition.Nutrients{Calories: 60, Carb: 15},
		VolumeMl:  &volume,
	}

	eval, err := newEvaluator().Evaluate(context.Background(), meal, referenceTarget())
	require.NoError(t, err)

	assert.Equal(t, 50, eval.TargetCalories)
	assert.Equal(t, "exceeds drink limit (20 kcal/100ml)", eval.CalorieEvaluation)
	assert.Empty(t, eval.MacroEvaluations)
	assert.Equal(t, 85, eval.NutritionScore)
}

func TestEvaluateMeal_DrinkWithinLimit(t *testing.T) {
	meal := nutrition.MealInput{
		MealType:  nutrition.MealDrinks,
		Nutrients: nutrition.Nutrients{Calories: 15},
	}

	eval, err := newEvaluator().Evaluate(context.Background(), meal, referenceTarget())
	require.NoError(t, err)

	assert.Equal(t, 20, eval.TargetCalories)
	assert.Equal(t, nutrition.CalorieWithinLimit, eval.CalorieEvaluation)
	assert.Equal(t, 100, eval.NutritionScore)
}

func TestEvaluator_Errors(t *testing.T) {
	e := newEvaluator()
	ctx := context.Background()

	_, err := e.Evaluate(ctx, nutrition.MealInput{MealType: nutrition.MealLunch}, nil)
	assert.ErrorIs(t, err, nutrition.ErrMissingTarget)

	_, err = e.Evaluate(ctx, nutrition.MealInput{MealType: "brunch"}, referenceTarget())
	assert.ErrorIs(t, err, nutrition.ErrInvalidMealType)
}

func TestEvaluateMeal_AllPenalties(t *testing.T) {
	// Calories, all three ratios and fiber are off.
	meal := nutrition.MealInput{
		MealType:  nutrition.MealDinner,
		Nutrients: nutrition.Nutrients{Calories: 5000, Carb: 1000},
	}

	eval := nutrition.EvaluateMeal(meal, nutrition.DefaultStandards()[nutrition.MealDinner], referenceTarget())
	assert.GreaterOrEqual(t, eval.NutritionScore, 0)
	assert.Equal(t, nutrition.CalorieAboveTarget, eval.CalorieEvaluation)
	assert.Equal(t, 45, eval.NutritionScore)
}

func TestClassifyBand(t *testing.T) {
	tests := []struct {
		pct  float64
		want nutrition.Band
	}{
		{0, nutrition.BandDeficientHigh},
		{49.9, nutrition.BandDeficientHigh},
		{50, nutrition.BandDeficientModerate},
		{89.9, nutrition.BandDeficientModerate},
		{90, nutrition.BandBalanced},
		{110, nutrition.BandBalanced},
		{110.1, nutrition.BandExcessiveModerate},
		{150, nutrition.BandExcessiveModerate},
		{150.1, nutrition.BandExcessiveHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nutrition.ClassifyBand(tt.pct), "pct %v", tt.pct)
	}
}
