package nutrition

// Nutrient identifies one tracked nutrient in evaluations and comments.
type Nutrient string

const (
	NutrientCalories Nutrient = "calories"
	NutrientProtein  Nutrient = "protein"
	NutrientFat      Nutrient = "fat"
	NutrientCarbs    Nutrient = "carbs"
	NutrientFiber    Nutrient = "fiber"
)

// Band classifies a percentage of the daily target.
type Band string

const (
	BandDeficientHigh     Band = "deficient_high"
	BandDeficientModerate Band = "deficient_moderate"
	BandBalanced          Band = "balanced"
	BandExcessiveModerate Band = "excessive_moderate"
	BandExcessiveHigh     Band = "excessive_high"
)

// ClassifyBand maps a percentage of the daily target to a band using the
// 50/90/110/150 thresholds. 90 and 110 are inclusive for balanced.
func ClassifyBand(pct float64) Band {
	switch {
	case pct >= 90 && pct <= 110:
		return BandBalanced
	case pct > 150:
		return BandExcessiveHigh
	case pct > 110:
		return BandExcessiveModerate
	case pct < 50:
		return BandDeficientHigh
	default:
		return BandDeficientModerate
	}
}

var nutrientComments = map[Nutrient]map[Band]string{
	NutrientProtein: {
		BandBalanced:          "Protein intake is well matched to your needs, supporting muscle maintenance and metabolism.",
		BandExcessiveHigh:     "Protein is well above your needs. Useful for heavy training, but a sustained surplus adds load on the kidneys.",
		BandExcessiveModerate: "Protein is slightly above your needs. Good for recovery after exercise, less useful on rest days.",
		BandDeficientHigh:     "Protein is far below your needs, which can lead to muscle loss and weaker immunity. Consider adding a protein source.",
		BandDeficientModerate: "Protein is slightly low. Add a little more to support training and muscle maintenance.",
	},
	NutrientFat: {
		BandBalanced:          "Fat is at a balanced level, helping vitamin absorption, hormone production and long-lasting energy.",
		BandExcessiveHigh:     "Fat is well above the recommended level, raising the risk of fat gain and blood lipid problems. Reduce the portion.",
		BandExcessiveModerate: "Fat is slightly high. Prefer unsaturated sources such as fish, avocado and nuts.",
		BandDeficientHigh:     "Fat is too low, which limits absorption of fat-soluble vitamins and hormone production. Add a healthy fat source.",
		BandDeficientModerate: "Fat is slightly low. Olive oil, seeds or nut butter can close the gap.",
	},
	NutrientCarbs: {
		BandBalanced:          "Carbohydrates are balanced, providing quick energy and glycogen stores for physical activity.",
		BandExcessiveHigh:     "Carbohydrates are too high, which can spike blood sugar and promote fat storage unless you are very active.",
		BandExcessiveModerate: "Carbohydrates are slightly high. Favor complex, low glycemic index sources.",
		BandDeficientHigh:     "Carbohydrates are too low, which can cause low energy, fatigue and poor focus. Add whole grains.",
		BandDeficientModerate: "Carbohydrates are slightly low. Fruit, sweet potato or whole grains help keep energy steady.",
	},
	NutrientFiber: {
		BandBalanced:          "Fiber is at an ideal level, supporting digestion, stable blood sugar and satiety.",
		BandExcessiveHigh:     "Fiber is above the recommendation. Good for the gut, but drink plenty of water to avoid bloating.",
		BandExcessiveModerate: "Fiber is slightly high. Make sure you drink enough water.",
		BandDeficientHigh:     "Fiber is far too low, raising the risk of constipation and an unbalanced gut microbiome. Add vegetables and fruit.",
		BandDeficientModerate: "Fiber is slightly low. Add greens, fruit or whole grains.",
	},
	NutrientCalories: {
		BandBalanced:          "Calories match your needs, supporting your current weight with steady energy.",
		BandExcessiveHigh:     "Calories are well above your needs and will lead to fat gain without extra activity.",
		BandExcessiveModerate: "Calories are slightly above your needs. Fine on intense training days, otherwise trim the portion a little.",
		BandDeficientHigh:     "Calories are far below your needs, risking undernutrition, muscle loss and a slower metabolism.",
		BandDeficientModerate: "Calories are slightly low. Fine while losing weight, otherwise increase the portion.",
	},
}

// NutrientComment returns the canned comment for a nutrient band.
func NutrientComment(n Nutrient, b Band) string {
	return nutrientComments[n][b]
}

// CommentFor classifies pct and returns the matching comment.
func CommentFor(n Nutrient, pct float64) string {
	return NutrientComment(n, ClassifyBand(pct))
}
