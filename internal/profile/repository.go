package profile

import (
	"context"
	"errors"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Repository defines the interface for profile persistence.
type Repository interface {
	// Get retrieves the profile of a user.
	// Returns ErrProfileNotFound if the user has no profile.
	Get(ctx context.Context, userID string) (*nutrition.Profile, error)

	// Upsert creates or replaces the profile of p.UserID.
	Upsert(ctx context.Context, p *nutrition.Profile) error
}
