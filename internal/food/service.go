package food

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/target"
)

// Validation constants.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 1000
	MaxIngredients       = 100
)

// TargetReader loads the daily target entries are scored against.
type TargetReader interface {
	Get(ctx context.Context, userID string) (*nutrition.Target, error)
}

// ServiceConfig holds configuration for the food service.
type ServiceConfig struct {
	Repository Repository

	// Targets and Evaluator are used to score entries. Both optional.
	Targets   TargetReader
	Evaluator *nutrition.Evaluator

	// Publisher receives a ChangeEvent per affected day. Defaults to NoopPublisher.
	Publisher Publisher

	Logger zerolog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service provides food entry operations.
type Service struct {
	repo      Repository
	targets   TargetReader
	evaluator *nutrition.Evaluator
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a new food service.
func NewService(cfg ServiceConfig) *Service {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:      cfg.Repository,
		targets:   cfg.Targets,
		evaluator: cfg.Evaluator,
		publisher: publisher,
		logger:    cfg.Logger,
		now:       now,
	}
}

// Get retrieves an entry of a user.
func (s *Service) Get(ctx context.Context, userID, id string) (*Entry, error) {
	return s.repo.Get(ctx, userID, id)
}

// List retrieves a user's entries.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]*Entry, error) {
	if opts.MealType != "" && !opts.MealType.Valid() {
		return nil, nutrition.ErrInvalidMealType
	}
	return s.repo.List(ctx, userID, opts)
}

// Create computes the entry's nutrients and score, stores it and announces
// the change of its day.
func (s *Service) Create(ctx context.Context, userID string, input *EntryInput) (*Entry, error) {
	if fieldErrors := validateInput(input); len(fieldErrors) > 0 {
		return nil, &nutrition.ValidationError{Errors: fieldErrors}
	}

	now := s.now().UTC()
	e := &Entry{
		ID:        "fd_" + uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.apply(e, input, now)

	score, err := s.score(ctx, e)
	if err != nil {
		return nil, err
	}
	e.NutritionScore = score

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("store entry: %w", err)
	}

	s.publish(ctx, userID, e.EatingTime)
	return e, nil
}

// Update replaces the writable fields of an entry and recomputes its
// nutrients. Both the old and the new day are announced.
func (s *Service) Update(ctx context.Context, userID, id string, input *EntryInput) (*Entry, error) {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateInput(input); len(fieldErrors) > 0 {
		return nil, &nutrition.ValidationError{Errors: fieldErrors}
	}

	previous := e.EatingTime
	now := s.now().UTC()
	s.apply(e, input, now)
	e.UpdatedAt = now

	score, err := s.score(ctx, e)
	if err != nil {
		return nil, err
	}
	e.NutritionScore = score

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, previous, e.EatingTime)
	return e, nil
}

// Delete deletes an entry and announces the change of its day.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publish(ctx, userID, e.EatingTime)
	return nil
}

// Evaluate evaluates an entry against its meal-type standard and the user's
// daily target.
func (s *Service) Evaluate(ctx context.Context, userID, id string) (*nutrition.MealEvaluation, error) {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.targets == nil || s.evaluator == nil {
		return nil, target.ErrTargetNotFound
	}

	t, err := s.targets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(ctx, mealInput(e), t)
}

// MealCalories sums the user's entries of one meal type on the day of date.
func (s *Service) MealCalories(ctx context.Context, userID string, date time.Time, mealType nutrition.MealType) (*MealCalories, error) {
	if !mealType.Valid() {
		return nil, nutrition.ErrInvalidMealType
	}

	from, to := DayWindow(date)
	entries, err := s.repo.List(ctx, userID, ListOptions{From: from, To: to, MealType: mealType})
	if err != nil {
		return nil, err
	}

	result := &MealCalories{
		Date:     DateKey(date),
		MealType: mealType,
		Foods:    make([]MealFood, 0, len(entries)),
	}
	for _, e := range entries {
		result.Totals = result.Totals.Add(e.Totals)
		result.Foods = append(result.Foods, MealFood{ID: e.ID, Name: e.Name, Calories: e.Totals.Calories})
	}
	return result, nil
}

func (s *Service) apply(e *Entry, input *EntryInput, now time.Time) {
	e.Name = input.Name
	e.MealType = input.MealType
	e.Description = input.Description
	e.VolumeMl = input.VolumeMl

	// Stored timestamps carry microsecond precision, matching the day
	// windows reads are bounded by.
	e.EatingTime = input.EatingTime.UTC().Truncate(time.Microsecond)
	if input.EatingTime.IsZero() {
		e.EatingTime = now
	}

	if len(input.Ingredients) > 0 {
		e.Ingredients, e.Totals = ComputeDish(input.Ingredients)
	} else {
		e.Ingredients = nil
		e.Totals = input.Totals
		e.Totals.Calories = IngredientCalories(e.Totals.Protein, e.Totals.Fat, e.Totals.Carb)
	}
}

// score returns nil when the entry cannot be scored yet.
func (s *Service) score(ctx context.Context, e *Entry) (*int, error) {
	if s.targets == nil || s.evaluator == nil || !e.MealType.Valid() {
		return nil, nil
	}

	t, err := s.targets.Get(ctx, e.UserID)
	if errors.Is(err, target.ErrTargetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}

	evaluation, err := s.evaluator.Evaluate(ctx, mealInput(e), t)
	if err != nil {
		return nil, fmt.Errorf("evaluate entry: %w", err)
	}
	return &evaluation.NutritionScore, nil
}

// publish announces each distinct day once. Failures are logged; the daily
// report is recomputed on request anyway.
func (s *Service) publish(ctx context.Context, userID string, days ...time.Time) {
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		key := DateKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true

		ev := ChangeEvent{JobType: JobFoodEntryChanged, UserID: userID, Date: key}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn().Err(err).
				Str("user_id", userID).
				Str("date", key).
				Msg("failed to publish food entry change")
		}
	}
}

func mealInput(e *Entry) nutrition.MealInput {
	return nutrition.MealInput{
		MealType:  e.MealType,
		Nutrients: e.Totals,
		VolumeMl:  e.VolumeMl,
	}
}

func validateInput(input *EntryInput) []nutrition.FieldError {
	var errs []nutrition.FieldError

	if input.Name == "" {
		errs = append(errs, nutrition.FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, nutrition.FieldError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)})
	}
	if len(input.Description) > MaxDescriptionLength {
		errs = append(errs, nutrition.FieldError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)})
	}
	if input.MealType != "" && !input.MealType.Valid() {
		errs = append(errs, nutrition.FieldError{Field: "mealType", Message: "is not a known meal type"})
	}
	if input.VolumeMl != nil && *input.VolumeMl <= 0 {
		errs = append(errs, nutrition.FieldError{Field: "volumeMl", Message: "must be positive"})
	}

	if len(input.Ingredients) > MaxIngredients {
		errs = append(errs, nutrition.FieldError{Field: "ingredients", Message: fmt.Sprintf("must contain at most %d items", MaxIngredients)})
	}
	for i, ing := range input.Ingredients {
		prefix := fmt.Sprintf("ingredients[%d]", i)
		if ing.Name == "" {
			errs = append(errs, nutrition.FieldError{Field: prefix + ".name", Message: "is required"})
		}
		if ing.Quantity < 0 {
			errs = append(errs, nutrition.FieldError{Field: prefix + ".quantity", Message: "must not be negative"})
		}
		d := ing.Per100
		if d.Protein < 0 || d.Fat < 0 || d.Carb < 0 || d.Fiber < 0 {
			errs = append(errs, nutrition.FieldError{Field: prefix + ".per100", Message: "nutrient values must not be negative"})
		}
	}

	if len(input.Ingredients) == 0 {
		t := input.Totals
		if t.Calories < 0 || t.Protein < 0 || t.Fat < 0 || t.Carb < 0 || t.Fiber < 0 {
			errs = append(errs, nutrition.FieldError{Field: "totals", Message: "nutrient values must not be negative"})
		}
	}

	return errs
}
