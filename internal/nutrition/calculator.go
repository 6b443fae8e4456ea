package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrMissingProfile is returned when a target is requested without a profile.
	ErrMissingProfile = errors.New("profile is required")

	// ErrIncompleteProfile is returned when a profile built step by step
	// still lacks fields the calculator needs.
	ErrIncompleteProfile = errors.New("profile is incomplete")
)

// Energy content per gram of macronutrient.
const (
	KcalPerGramProtein = 4.0
	KcalPerGramCarb    = 4.0
	KcalPerGramFat     = 9.0
)

// GoalCalorieDelta is the daily calorie adjustment applied for lose/gain goals.
const GoalCalorieDelta = 500.0

// WaterMlPerKg is the daily water target per kilogram of body weight.
const WaterMlPerKg = 30.0

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

// MacroRatio is the share of calories from each macronutrient.
type MacroRatio struct {
	Carb    float64 `json:"carb"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

var dietRatios = map[DietType]MacroRatio{
	DietBalanced:    {Carb: 0.50, Protein: 0.20, Fat: 0.30},
	DietVegetarian:  {Carb: 0.55, Protein: 0.15, Fat: 0.30},
	DietVegan:       {Carb: 0.60, Protein: 0.15, Fat: 0.25},
	DietPaleo:       {Carb: 0.30, Protein: 0.30, Fat: 0.40},
	DietKeto:        {Carb: 0.05, Protein: 0.20, Fat: 0.75},
	DietHighProtein: {Carb: 0.25, Protein: 0.35, Fat: 0.40},
	DietLowCarb:     {Carb: 0.20, Protein: 0.30, Fat: 0.50},
}

// Macros is the output of CalculateMacros.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carb     float64 `json:"carb"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Water    float64 `json:"water"`
}

// Age returns the number of full years between birthdate and now.
func Age(birthdate, now time.Time) int {
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	return age
}

// CalculateBMR applies the Mifflin-St Jeor equation.
func CalculateBMR(p *Profile, now time.Time) float64 {
	age := float64(Age(p.Birthdate, now))
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*age
	if p.Gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// ActivityMultiplier returns the TDEE multiplier for level, defaulting to sedentary.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}

// CalculateTDEE scales bmr by the activity multiplier.
func CalculateTDEE(bmr float64, level ActivityLevel) float64 {
	return bmr * ActivityMultiplier(level)
}

// DietRatio returns the macro split for diet, defaulting to balanced.
func DietRatio(diet DietType) MacroRatio {
	if r, ok := dietRatios[diet]; ok {
		return r
	}
	return dietRatios[DietBalanced]
}

// GoalCalories adjusts tdee for the weight goal. The result never drops
// below zero, so very small bodies on a deficit get a zero target rather
// than negative macros.
func GoalCalories(tdee float64, goal WeightGoal) float64 {
	switch goal {
	case GoalLose:
		tdee -= GoalCalorieDelta
	case GoalGain:
		tdee += GoalCalorieDelta
	}
	return math.Max(tdee, 0)
}

// FiberTarget returns the daily fiber recommendation in grams.
func FiberTarget(age int, gender Gender) float64 {
	male := gender == GenderMale
	switch {
	case age <= 3:
		return 19
	case age <= 8:
		return 25
	case age <= 13:
		if male {
			return 26
		}
		return 24
	case age <= 18:
		if male {
			return 38
		}
		return 26
	case age <= 50:
		if male {
			return 38
		}
		return 25
	default:
		if male {
			return 30
		}
		return 21
	}
}

// WaterTarget returns the daily water target in ml.
func WaterTarget(weightKg float64) float64 {
	return math.Round(weightKg * WaterMlPerKg)
}

// CalculateMacros derives calorie, macro, fiber and water targets.
func CalculateMacros(tdee float64, goal WeightGoal, diet DietType, p *Profile, now time.Time) Macros {
	calories := GoalCalories(tdee, goal)
	ratio := DietRatio(diet)

	return Macros{
		Calories: math.Round(calories),
		Protein:  math.Round(calories * ratio.Protein / KcalPerGramProtein),
		Carb:     math.Round(calories * ratio.Carb / KcalPerGramCarb),
		Fat:      math.Round(calories * ratio.Fat / KcalPerGramFat),
		Fiber:    FiberTarget(Age(p.Birthdate, now), p.Gender),
		Water:    WaterTarget(p.WeightKg),
	}
}

// CalculateTarget runs the full calculator chain for a profile.
func CalculateTarget(p *Profile, now time.Time) (*Target, error) {
	if p == nil {
		return nil, ErrMissingProfile
	}
	if missing := MissingProfileFields(p); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteProfile, strings.Join(missing, ", "))
	}

	bmr := CalculateBMR(p, now)
	tdee := CalculateTDEE(bmr, p.ActivityLevel)
	m := CalculateMacros(tdee, p.Goal, p.DietType, p, now)

	return &Target{
		UserID:    p.UserID,
		BMR:       math.Round(bmr),
		TDEE:      math.Round(tdee),
		Calories:  m.Calories,
		Protein:   m.Protein,
		Carb:      m.Carb,
		Fat:       m.Fat,
		Fiber:     m.Fiber,
		Water:     m.Water,
		UpdatedAt: now,
	}, nil
}

// WeekProjection is the projected weight at the end of a week.
type WeekProjection struct {
	Week   int     `json:"week"`
	Weight float64 `json:"weight"`
}

// Progress is a linear weight projection towards the desired weight.
type Progress struct {
	StartWeight   float64          `json:"startWeight"`
	DesiredWeight float64          `json:"desiredWeight"`
	Weeks         int              `json:"weeks"`
	WeeklyChange  float64          `json:"weeklyChange"`
	Projections   []WeekProjection `json:"projections"`
}

// ProjectProgress returns nil when weeks is not positive.
func ProjectProgress(start, desired float64, weeks int) *Progress {
	if weeks <= 0 {
		return nil
	}

	weekly := (desired - start) / float64(weeks)
	projections := make([]WeekProjection, 0, weeks)
	for w := 1; w <= weeks; w++ {
		projections = append(projections, WeekProjection{
			Week:   w,
			Weight: roundTo(start+weekly*float64(w), 1),
		})
	}

	return &Progress{
		StartWeight:   start,
		DesiredWeight: desired,
		Weeks:         weeks,
		WeeklyChange:  roundTo(weekly, 2),
		Projections:   projections,
	}
}

// BMI returns the body mass index rounded to one decimal, or 0 without a height.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return roundTo(weightKg/(m*m), 1)
}

// BMICategory classifies a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obesity"
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
