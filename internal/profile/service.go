package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Service errors.
var (
	ErrNoWeightGoal = errors.New("profile has no weight goal")
)

// TargetUpdater recomputes the nutrition target of a user.
type TargetUpdater interface {
	Recalculate(ctx context.Context, userID string) (*nutrition.Target, error)
}

// ServiceConfig holds configuration for the profile service.
type ServiceConfig struct {
	Repository Repository

	// Targets is notified after every successful write of a complete
	// profile. Optional.
	Targets TargetUpdater

	Logger zerolog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service provides profile operations.
type Service struct {
	repo    Repository
	targets TargetUpdater
	logger  zerolog.Logger
	now     func() time.Time
}

// NewService creates a new profile service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    cfg.Repository,
		targets: cfg.Targets,
		logger:  cfg.Logger,
		now:     now,
	}
}

// Get retrieves the profile of a user.
func (s *Service) Get(ctx context.Context, userID string) (*nutrition.Profile, error) {
	return s.repo.Get(ctx, userID)
}

// Upsert validates and stores the profile of a user, then recomputes the
// user's nutrition target.
func (s *Service) Upsert(ctx context.Context, userID string, input *nutrition.Profile) (*nutrition.Profile, error) {
	now := s.now().UTC()

	if fieldErrors := nutrition.ValidateProfile(input, now); len(fieldErrors) > 0 {
		return nil, &nutrition.ValidationError{Errors: fieldErrors}
	}

	p := *input
	p.UserID = userID
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Goal == nutrition.GoalMaintain {
		p.DesiredWeight = nil
		p.GoalDuration = nil
	}

	existing, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrProfileNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if err := s.repo.Upsert(ctx, &p); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	s.recalculate(ctx, userID)

	s.logger.Info().
		Str("user_id", userID).
		Str("goal", string(p.Goal)).
		Msg("profile updated")

	return &p, nil
}

// Patch merges the supplied fields into the stored profile, creating it on
// the first step of onboarding. Supplied fields are always validated; stored
// fields only when present. The target is recomputed once the merged
// profile is complete.
func (s *Service) Patch(ctx context.Context, userID string, patch *Patch) (*nutrition.Profile, error) {
	now := s.now().UTC()

	p, err := s.repo.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = &nutrition.Profile{UserID: userID, CreatedAt: now}
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}

	patch.apply(p)
	if p.Goal == nutrition.GoalMaintain {
		p.DesiredWeight = nil
		p.GoalDuration = nil
	}
	p.UpdatedAt = now

	if fieldErrors := patch.validate(p, now); len(fieldErrors) > 0 {
		return nil, &nutrition.ValidationError{Errors: fieldErrors}
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	complete := nutrition.ProfileComplete(p)
	if complete {
		s.recalculate(ctx, userID)
	}

	s.logger.Info().
		Str("user_id", userID).
		Strs("fields", patch.fields()).
		Bool("complete", complete).
		Msg("profile patched")

	return p, nil
}

// recalculate refreshes the target after a profile write. The profile is
// already stored, so a failure is logged and the stale target stays until
// the next write or an explicit recalculation.
func (s *Service) recalculate(ctx context.Context, userID string) {
	if s.targets == nil {
		return
	}
	if _, err := s.targets.Recalculate(ctx, userID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("target recalculation after profile update failed")
	}
}

// Progress projects the weekly weight path from the current weight to the
// desired weight. Returns ErrNoWeightGoal when the profile has none.
func (s *Service) Progress(ctx context.Context, userID string) (*nutrition.Progress, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.DesiredWeight == nil || p.GoalDuration == nil {
		return nil, ErrNoWeightGoal
	}

	progress := nutrition.ProjectProgress(p.WeightKg, *p.DesiredWeight, *p.GoalDuration)
	if progress == nil {
		return nil, ErrNoWeightGoal
	}
	return progress, nil
}
