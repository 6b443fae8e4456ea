package nutrition

import "context"

// StandardRepository stores the meal-type standard table.
type StandardRepository interface {
	// Get returns ErrStandardNotFound if no row exists for mealType.
	Get(ctx context.Context, mealType MealType) (*MealTypeStandard, error)

	List(ctx context.Context) ([]*MealTypeStandard, error)

	// Upsert creates or replaces the standard for its meal type.
	Upsert(ctx context.Context, std *MealTypeStandard) error
}
