package report

import (
	"time"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Percentages holds rounded percentage-of-target values.
type Percentages struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carb     int `json:"carb"`
	Fiber    int `json:"fiber"`
}

func percentagesOf(actual, target nutrition.Nutrients) Percentages {
	return Percentages{
		Calories: nutrition.ReportPercent(actual.Calories, target.Calories),
		Protein:  nutrition.ReportPercent(actual.Protein, target.Protein),
		Fat:      nutrition.ReportPercent(actual.Fat, target.Fat),
		Carb:     nutrition.ReportPercent(actual.Carb, target.Carb),
		Fiber:    nutrition.ReportPercent(actual.Fiber, target.Fiber),
	}
}

// FoodRef identifies an entry inside a meal breakdown.
type FoodRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MealBreakdown groups a day's entries of one meal type.
type MealBreakdown struct {
	MealType nutrition.MealType `json:"mealType"`
	Calories float64            `json:"calories"`
	Foods    []FoodRef          `json:"foods"`
}

// DailyReport is the intake of one user on one calendar day.
type DailyReport struct {
	UserID string `json:"userId"`
	Date   string `json:"date"`

	Totals nutrition.Nutrients `json:"totals"`

	// Target and Percentages are omitted when the user has no target.
	Target      *nutrition.Nutrients `json:"target,omitempty"`
	Percentages *Percentages         `json:"percentages,omitempty"`

	Meals       []MealBreakdown `json:"meals"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// WeeklyReport composes seven daily reports.
type WeeklyReport struct {
	UserID       string              `json:"userId"`
	WeekStart    string              `json:"weekStart"`
	WeekEnd      string              `json:"weekEnd"`
	DailyReports []DailyReport       `json:"dailyReports"`
	Totals       nutrition.Nutrients `json:"totals"`
	Averages     nutrition.Nutrients `json:"averages"`
	Target       nutrition.Nutrients `json:"target"`
	Percentages  Percentages         `json:"percentages"`
}

// NutrientSeries is the weekly chart data of one nutrient.
type NutrientSeries struct {
	DailyValues []float64 `json:"dailyValues"`
	Average     float64   `json:"average"`
	Target      float64   `json:"target"`

	// Deviation is round((average/target - 1) * 100), 0 without a target.
	Deviation int    `json:"deviation"`
	Review    string `json:"review"`
}

// ScoreSeries is the weekly nutrition score chart data.
type ScoreSeries struct {
	DailyScores []int `json:"dailyScores"`
	Average     int   `json:"average"`
	Max         int   `json:"max"`
	Min         int   `json:"min"`
}

// IngredientCount is one bar of the ingredient histogram.
type IngredientCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FoodDiversity is the ingredient histogram of a week.
type FoodDiversity struct {
	// TotalCount is the number of distinct ingredients.
	TotalCount  int               `json:"totalCount"`
	Ingredients []IngredientCount `json:"ingredients"`
}

// WeeklyStatistics is the chart-oriented view of a week.
type WeeklyStatistics struct {
	UserID      string   `json:"userId"`
	WeekStart   string   `json:"weekStart"`
	WeekEnd     string   `json:"weekEnd"`
	Dates       []string `json:"dates"`
	BMI         float64  `json:"bmi"`
	BMICategory string   `json:"bmiCategory"`

	NutritionScore ScoreSeries    `json:"nutritionScore"`
	Calories       NutrientSeries `json:"calories"`
	Protein        NutrientSeries `json:"protein"`
	Fat            NutrientSeries `json:"fat"`
	Carb           NutrientSeries `json:"carb"`
	Fiber          NutrientSeries `json:"fiber"`

	FoodDiversity FoodDiversity `json:"foodDiversity"`
}
