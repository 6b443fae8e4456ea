package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// FoodReader loads the entry being compared.
type FoodReader interface {
	Get(ctx context.Context, userID, id string) (*food.Entry, error)
}

// TargetReader loads the daily target.
type TargetReader interface {
	Get(ctx context.Context, userID string) (*nutrition.Target, error)
}

// ServiceConfig holds configuration for the comparison service.
type ServiceConfig struct {
	Repository Repository
	Foods      FoodReader
	Targets    TargetReader
	Logger     zerolog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service builds and stores comparisons.
type Service struct {
	repo    Repository
	foods   FoodReader
	targets TargetReader
	logger  zerolog.Logger
	now     func() time.Time
}

// NewService creates a new comparison service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    cfg.Repository,
		foods:   cfg.Foods,
		targets: cfg.Targets,
		logger:  cfg.Logger,
		now:     now,
	}
}

// Create compares a food entry with the user's target and stores the result.
// A missing entry or target fails with the collaborator's not-found error.
func (s *Service) Create(ctx context.Context, userID, foodID string) (*Comparison, error) {
	entry, err := s.foods.Get(ctx, userID, foodID)
	if err != nil {
		return nil, err
	}
	t, err := s.targets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := &Comparison{
		ID:          "cmp_" + uuid.New().String(),
		UserID:      userID,
		FoodID:      foodID,
		Percentages: nutrition.BuildDiff(entry.Totals, t.Nutrients()),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("store comparison: %w", err)
	}

	c.assess()

	s.logger.Debug().
		Str("user_id", userID).
		Str("food_id", foodID).
		Str("comparison_id", c.ID).
		Int("score", c.NutritionScore).
		Msg("comparison created")

	return c, nil
}

// Get retrieves a comparison of a user.
func (s *Service) Get(ctx context.Context, userID, id string) (*Comparison, error) {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.assess()
	return c, nil
}

// ListByFood retrieves the comparisons of one entry.
func (s *Service) ListByFood(ctx context.Context, userID, foodID string) ([]*Comparison, error) {
	result, err := s.repo.ListByFood(ctx, userID, foodID)
	if err != nil {
		return nil, err
	}
	for _, c := range result {
		c.assess()
	}
	return result, nil
}
