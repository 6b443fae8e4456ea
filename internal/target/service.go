package target

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// ProfileReader loads the profile a target is derived from.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (*nutrition.Profile, error)
}

// ServiceConfig holds configuration for the target service.
type ServiceConfig struct {
	Repository Repository
	Profiles   ProfileReader
	Logger     zerolog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service derives and stores nutrition targets.
type Service struct {
	repo     Repository
	profiles ProfileReader
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new target service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     cfg.Repository,
		profiles: cfg.Profiles,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Get retrieves the current target of a user.
func (s *Service) Get(ctx context.Context, userID string) (*nutrition.Target, error) {
	return s.repo.Get(ctx, userID)
}

// Recalculate derives the target from the user's profile and replaces the
// stored one. A missing profile is returned as-is so callers can map it to
// a not-found response.
func (s *Service) Recalculate(ctx context.Context, userID string) (*nutrition.Target, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t, err := nutrition.CalculateTarget(p, now)
	if err != nil {
		return nil, err
	}
	t.UserID = userID
	t.UpdatedAt = now

	if err := s.repo.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("store target: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Float64("calories", t.Calories).
		Msg("nutrition target recalculated")

	return t, nil
}
