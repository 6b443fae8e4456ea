package target

import (
	"context"
	"errors"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Repository errors.
var (
	ErrTargetNotFound = errors.New("nutrition target not found")
)

// Repository defines the interface for nutrition target persistence.
type Repository interface {
	// Get retrieves the target of a user.
	// Returns ErrTargetNotFound if none has been calculated yet.
	Get(ctx context.Context, userID string) (*nutrition.Target, error)

	// Upsert replaces the target of t.UserID in place.
	Upsert(ctx context.Context, t *nutrition.Target) error
}
