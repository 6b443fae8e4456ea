package nutrition_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// countingRepository counts Get calls and can be switched to fail.
type countingRepository struct {
	*nutrition.InMemoryStandardRepository

	mu   sync.Mutex
	gets int
	fail bool
}

func (r *countingRepository) Get(ctx context.Context, mealType nutrition.MealType) (*nutrition.MealTypeStandard, error) {
	r.mu.Lock()
	r.gets++
	fail := r.fail
	r.mu.Unlock()

	if fail {
		return nil, errors.New("connection refused")
	}
	return r.InMemoryStandardRepository.Get(ctx, mealType)
}

func (r *countingRepository) List(ctx context.Context) ([]*nutrition.MealTypeStandard, error) {
	r.mu.Lock()
	fail := r.fail
	r.mu.Unlock()

	if fail {
		return nil, errors.New("connection refused")
	}
	return r.InMemoryStandardRepository.List(ctx)
}

func newCountingRepository() *countingRepository {
	return &countingRepository{InMemoryStandardRepository: nutrition.NewInMemoryStandardRepository()}
}

func newCache(repo nutrition.StandardRepository) *nutrition.StandardCache {
	return nutrition.NewStandardCache(nutrition.StandardCacheConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
}

func TestStandardCache_ReadThrough(t *testing.T) {
	repo := newCountingRepository()
	cache := newCache(repo)
	ctx := context.Background()

	first, err := cache.Get(ctx, nutrition.MealBreakfast)
	require.NoError(t, err)
	require.NotNil(t, first.CaloriePercentage)
	assert.Equal(t, 25.0, *first.CaloriePercentage)

	_, err = cache.Get(ctx, nutrition.MealBreakfast)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)
	assert.Equal(t, 1, cache.Len())

	// Callers get copies.
	*first.CaloriePercentage = 99
	again, err := cache.Get(ctx, nutrition.MealBreakfast)
	require.NoError(t, err)
	assert.Equal(t, 25.0, *again.CaloriePercentage)
}

func TestStandardCache_Invalidate(t *testing.T) {
	repo := newCountingRepository()
	cache := newCache(repo)
	ctx := context.Background()

	_, err := cache.Get(ctx, nutrition.MealLunch)
	require.NoError(t, err)

	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Get(ctx, nutrition.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets)
}

func TestStandardCache_FallsBackToDefaults(t *testing.T) {
	repo := newCountingRepository()
	repo.fail = true
	cache := newCache(repo)

	std, err := cache.Get(context.Background(), nutrition.MealSnack)
	require.NoError(t, err)
	require.NotNil(t, std.MaxCalories)
	assert.Equal(t, 200.0, *std.MaxCalories)
	assert.Equal(t, 0, cache.Len())

	list := cache.List(context.Background())
	assert.Len(t, list, len(nutrition.MealTypes()))
}

func TestStandardCache_MealTypes(t *testing.T) {
	cache := newCache(nil)
	ctx := context.Background()

	weekly, err := cache.Get(ctx, nutrition.MealWeekly)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *weekly.CaloriePercentage)

	_, err = cache.Get(ctx, "brunch")
	assert.ErrorIs(t, err, nutrition.ErrInvalidMealType)

	_, err = cache.Get(ctx, nutrition.MealOther)
	assert.ErrorIs(t, err, nutrition.ErrInvalidMealType)
}

func TestStandardCache_List(t *testing.T) {
	list := newCache(nil).List(context.Background())

	require.Len(t, list, 6)
	got := make([]nutrition.MealType, len(list))
	for i, std := range list {
		got[i] = std.MealType
	}
	assert.Equal(t, nutrition.MealTypes(), got)
}

func TestStandardCache_Update(t *testing.T) {
	cache := newCache(nil)
	ctx := context.Background()

	_, err := cache.Get(ctx, nutrition.MealSnack)
	require.NoError(t, err)

	maxCalories := 300.0
	err = cache.Update(ctx, &nutrition.MealTypeStandard{
		MealType:    nutrition.MealSnack,
		Ratio:       nutrition.MacroRatio{Carb: 0.5, Protein: 0.3, Fat: 0.2},
		MaxCalories: &maxCalories,
	})
	require.NoError(t, err)

	std, err := cache.Get(ctx, nutrition.MealSnack)
	require.NoError(t, err)
	assert.Equal(t, 300.0, *std.MaxCalories)
}

func TestStandardCache_UpdateRejectsInvalid(t *testing.T) {
	cache := newCache(nil)

	err := cache.Update(context.Background(), &nutrition.MealTypeStandard{
		MealType: nutrition.MealLunch,
		Ratio:    nutrition.MacroRatio{Carb: 0.5, Protein: 0.5, Fat: 0.5},
	})

	var validationErr *nutrition.ValidationError
	require.ErrorAs(t, err, &validationErr)
	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"ratio", "caloriePercentage"}, fields)
}

func TestDefaultStandards_Valid(t *testing.T) {
	for mealType, std := range nutrition.DefaultStandards() {
		assert.Empty(t, std.Validate(), "standard %s", mealType)
	}
}
