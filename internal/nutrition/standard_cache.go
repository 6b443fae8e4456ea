package nutrition

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// StandardCacheConfig holds configuration for the standard cache.
type StandardCacheConfig struct {
	Repository StandardRepository
	Logger     zerolog.Logger

	// Defaults are served when the repository fails. Nil means DefaultStandards.
	Defaults map[MealType]*MealTypeStandard
}

// StandardCache is a read-through cache over a StandardRepository.
// Entries never expire; Invalidate drops them after the table is edited.
type StandardCache struct {
	repo     StandardRepository
	logger   zerolog.Logger
	defaults map[MealType]*MealTypeStandard

	mu    sync.RWMutex
	cache map[MealType]*MealTypeStandard
}

// NewStandardCache creates a new standard cache.
func NewStandardCache(cfg StandardCacheConfig) *StandardCache {
	defaults := cfg.Defaults
	if defaults == nil {
		defaults = DefaultStandards()
	}
	repo := cfg.Repository
	if repo == nil {
		repo = NewInMemoryStandardRepository()
	}

	return &StandardCache{
		repo:     repo,
		logger:   cfg.Logger,
		defaults: defaults,
		cache:    make(map[MealType]*MealTypeStandard),
	}
}

// Get returns the standard for mealType. Unknown meal types yield
// ErrInvalidMealType. The returned value is a copy.
func (c *StandardCache) Get(ctx context.Context, mealType MealType) (*MealTypeStandard, error) {
	if mealType == MealWeekly {
		return WeeklyStandard(), nil
	}
	if !mealType.Valid() {
		return nil, ErrInvalidMealType
	}

	if std := c.getCached(mealType); std != nil {
		return std.Clone(), nil
	}

	std, err := c.repo.Get(ctx, mealType)
	if err == nil {
		c.setCached(mealType, std)
		return std.Clone(), nil
	}

	if !errors.Is(err, ErrStandardNotFound) {
		c.logger.Warn().Err(err).Str("meal_type", string(mealType)).Msg("failed to load meal type standard, using default")
	}

	if std, ok := c.defaults[mealType]; ok {
		return std.Clone(), nil
	}
	return nil, ErrStandardNotFound
}

// List returns every standard, merged over the defaults.
func (c *StandardCache) List(ctx context.Context) []*MealTypeStandard {
	merged := make(map[MealType]*MealTypeStandard, len(c.defaults))
	for k, v := range c.defaults {
		merged[k] = v
	}

	stored, err := c.repo.List(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to list meal type standards, using defaults")
	} else {
		c.mu.Lock()
		for _, std := range stored {
			merged[std.MealType] = std
			c.cache[std.MealType] = std
		}
		c.mu.Unlock()
	}

	result := make([]*MealTypeStandard, 0, len(merged))
	for _, std := range merged {
		result = append(result, std.Clone())
	}
	sortStandards(result)
	return result
}

// Update validates and stores a standard, then drops its cached copy.
func (c *StandardCache) Update(ctx context.Context, std *MealTypeStandard) error {
	if errs := std.Validate(); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	if err := c.repo.Upsert(ctx, std); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.cache, std.MealType)
	c.mu.Unlock()
	return nil
}

// Invalidate clears all cached standards.
func (c *StandardCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[MealType]*MealTypeStandard)
}

// Len returns the number of cached standards.
func (c *StandardCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *StandardCache) getCached(mealType MealType) *MealTypeStandard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache[mealType]
}

func (c *StandardCache) setCached(mealType MealType, std *MealTypeStandard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[mealType] = std
}
