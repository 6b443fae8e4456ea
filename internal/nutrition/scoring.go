package nutrition

import "math"

// DefaultScore is returned when no comparison data is available.
const DefaultScore = 70

// MaxWeaknesses caps the number of weaknesses surfaced for one item.
const MaxWeaknesses = 3

// Score weights per nutrient. They sum to 1.
const (
	weightCalories = 0.30
	weightProtein  = 0.20
	weightFat      = 0.15
	weightCarb     = 0.15
	weightFiber    = 0.20
)

// Filler messages keep strengths and weaknesses lists non-empty.
const (
	StrengthBalanced    = "Balanced nutrition"
	StrengthContributes = "Contributes to your daily nutrition"
	WeaknessMinor       = "Minor deviations from targets"
	WeaknessNone        = "No significant nutritional concerns"
)

// ComparisonPercent returns round(actual/target*100), using 1 as the
// denominator when target is 0.
func ComparisonPercent(actual, target float64) int {
	if target == 0 {
		target = 1
	}
	return int(math.Round(actual / target * 100))
}

// ReportPercent returns round(actual/target*100), or 0 when target is 0.
func ReportPercent(actual, target float64) int {
	if target == 0 {
		return 0
	}
	return int(math.Round(actual / target * 100))
}

// BuildDiff computes comparison percentages of actual against target.
func BuildDiff(actual, target Nutrients) Diff {
	return Diff{
		Calories: intPtr(ComparisonPercent(actual.Calories, target.Calories)),
		Protein:  intPtr(ComparisonPercent(actual.Protein, target.Protein)),
		Fat:      intPtr(ComparisonPercent(actual.Fat, target.Fat)),
		Carb:     intPtr(ComparisonPercent(actual.Carb, target.Carb)),
		Fiber:    intPtr(ComparisonPercent(actual.Fiber, target.Fiber)),
	}
}

// Score converts percentage-of-target values into a 0-100 score.
// Missing values count as on target.
func Score(d *Diff) int {
	if d == nil {
		return DefaultScore
	}

	deviation := func(p *int) float64 {
		if p == nil {
			return 0
		}
		return math.Abs(float64(*p) - 100)
	}

	weighted := deviation(d.Calories)*weightCalories +
		deviation(d.Protein)*weightProtein +
		deviation(d.Fat)*weightFat +
		deviation(d.Carb)*weightCarb +
		deviation(d.Fiber)*weightFiber

	score := int(math.Round(100 - weighted/2))
	return clampScore(score)
}

// Strengths lists the positive aspects of a comparison.
func Strengths(d *Diff) []string {
	if d == nil {
		return []string{StrengthBalanced}
	}

	var out []string
	if v, ok := value(d.Protein); ok {
		switch {
		case v >= 90 && v <= 120:
			out = append(out, "Appropriate protein content")
		case v > 120:
			out = append(out, "High protein content")
		}
	}
	if v, ok := value(d.Fat); ok {
		switch {
		case v >= 90 && v <= 110:
			out = append(out, "Well-balanced fat content")
		case v < 90:
			out = append(out, "Low fat content")
		}
	}
	if v, ok := value(d.Carb); ok && v >= 90 && v <= 110 {
		out = append(out, "Good carbohydrate balance")
	}
	if v, ok := value(d.Fiber); ok && v >= 100 {
		out = append(out, "Good fiber content")
	}
	if v, ok := value(d.Calories); ok {
		switch {
		case v >= 90 && v <= 110:
			out = append(out, "Appropriate caloric content")
		case v < 90:
			out = append(out, "Low calorie option")
		}
	}

	if len(out) == 0 {
		return []string{StrengthContributes}
	}
	return out
}

// Weaknesses lists at most MaxWeaknesses concerns of a comparison.
func Weaknesses(d *Diff) []string {
	if d == nil {
		return []string{WeaknessMinor}
	}

	var out []string
	if v, ok := value(d.Protein); ok {
		switch {
		case v < 70:
			out = append(out, "Low protein content")
		case v > 150:
			out = append(out, "Excessive protein content")
		}
	}
	if v, ok := value(d.Fat); ok && v > 130 {
		out = append(out, "High fat content")
	}
	if v, ok := value(d.Carb); ok {
		switch {
		case v > 130:
			out = append(out, "High carbohydrate content")
		case v < 70:
			out = append(out, "Low carbohydrate content")
		}
	}
	if v, ok := value(d.Fiber); ok && v < 70 {
		out = append(out, "Low fiber content")
	}
	if v, ok := value(d.Calories); ok && v > 130 {
		out = append(out, "High caloric content")
	}

	if len(out) == 0 {
		return []string{WeaknessNone}
	}
	if len(out) > MaxWeaknesses {
		out = out[:MaxWeaknesses]
	}
	return out
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func value(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func intPtr(v int) *int {
	return &v
}
