package comparison_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/target"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *comparison.Service
	foods   *food.InMemoryRepository
	targets *target.InMemoryRepository
}

func newFixture() *fixture {
	f := &fixture{
		foods:   food.NewInMemoryRepository(),
		targets: target.NewInMemoryRepository(),
	}
	f.svc = comparison.NewService(comparison.ServiceConfig{
		Repository: comparison.NewInMemoryRepository(),
		Foods:      f.foods,
		Targets:    f.targets,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return now },
	})
	return f
}

func (f *fixture) addEntry(t *testing.T, totals nutrition.Nutrients) string {
	t.Helper()
	require.NoError(t, f.foods.Create(context.Background(), &food.Entry{
		ID:         "fd_1",
		UserID:     "usr_1",
		Name:       "Pasta",
		MealType:   nutrition.MealDinner,
		EatingTime: now,
		Totals:     totals,
	}))
	return "fd_1"
}

func (f *fixture) addTarget(t *testing.T, tgt nutrition.Target) {
	t.Helper()
	tgt.UserID = "usr_1"
	require.NoError(t, f.targets.Upsert(context.Background(), &tgt))
}

func TestService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	foodID := f.addEntry(t, nutrition.Nutrients{Calories: 2000, Protein: 120, Fat: 70, Carb: 250, Fiber: 30})
	f.addTarget(t, nutrition.Target{Calories: 2000, Protein: 120, Fat: 70, Carb: 250, Fiber: 30})

	c, err := f.svc.Create(ctx, "usr_1", foodID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.ID, "cmp_"))
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, 100, *c.Percentages.Calories)
	assert.Equal(t, 100, *c.Percentages.Fiber)
	assert.Equal(t, 100, c.NutritionScore)
	assert.NotEmpty(t, c.Strengths)
	assert.Equal(t, []string{nutrition.WeaknessNone}, c.Weaknesses)

	stored, err := f.svc.Get(ctx, "usr_1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, stored)

	list, err := f.svc.ListByFood(ctx, "usr_1", foodID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_CreateZeroTarget(t *testing.T) {
	f := newFixture()
	foodID := f.addEntry(t, nutrition.Nutrients{Calories: 500, Fiber: 5})
	f.addTarget(t, nutrition.Target{Calories: 2000})

	c, err := f.svc.Create(context.Background(), "usr_1", foodID)
	require.NoError(t, err)

	assert.Equal(t, 25, *c.Percentages.Calories)
	assert.Equal(t, 500, *c.Percentages.Fiber)
	assert.Equal(t, 0, *c.Percentages.Protein)
}

func TestService_CreateNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "usr_1", "fd_missing")
	assert.ErrorIs(t, err, food.ErrEntryNotFound)

	foodID := f.addEntry(t, nutrition.Nutrients{Calories: 100})
	_, err = f.svc.Create(ctx, "usr_1", foodID)
	assert.ErrorIs(t, err, target.ErrTargetNotFound)

	_, err = f.svc.Get(ctx, "usr_1", "cmp_missing")
	assert.ErrorIs(t, err, comparison.ErrComparisonNotFound)
}
