package comparison

import (
	"time"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Comparison pairs one food entry with the daily target of its owner.
// Percentages are computed once at creation and never mutated.
type Comparison struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	FoodID      string         `json:"foodId"`
	Percentages nutrition.Diff `json:"percentages"`
	CreatedAt   time.Time      `json:"createdAt"`

	// Derived from Percentages on read.
	NutritionScore int      `json:"nutritionScore"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
}

func (c *Comparison) assess() {
	c.NutritionScore = nutrition.Score(&c.Percentages)
	c.Strengths = nutrition.Strengths(&c.Percentages)
	c.Weaknesses = nutrition.Weaknesses(&c.Percentages)
}
