package food

import (
	"context"
	"errors"
	"time"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Repository errors.
var (
	ErrEntryNotFound = errors.New("food entry not found")
)

// ListOptions filters a user's entries.
type ListOptions struct {
	// From and To bound EatingTime inclusively. Zero values are open.
	From time.Time
	To   time.Time

	// MealType restricts the result to one meal type when set.
	MealType nutrition.MealType
}

// Repository defines the interface for food entry persistence.
type Repository interface {
	// Get retrieves an entry owned by userID.
	// Returns ErrEntryNotFound if it doesn't exist or belongs to another user.
	Get(ctx context.Context, userID, id string) (*Entry, error)

	// List retrieves a user's entries ordered by eating time.
	List(ctx context.Context, userID string, opts ListOptions) ([]*Entry, error)

	// Create creates a new entry.
	Create(ctx context.Context, e *Entry) error

	// Update replaces an existing entry.
	Update(ctx context.Context, e *Entry) error

	// Delete deletes an entry owned by userID.
	Delete(ctx context.Context, userID, id string) error
}

func (o ListOptions) matches(e *Entry) bool {
	if !o.From.IsZero() && e.EatingTime.Before(o.From) {
		return false
	}
	if !o.To.IsZero() && e.EatingTime.After(o.To) {
		return false
	}
	if o.MealType != "" && e.MealType != o.MealType {
		return false
	}
	return true
}
