package food_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/target"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []food.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev food.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	svc       *food.Service
	repo      *food.InMemoryRepository
	targets   *target.InMemoryRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      food.NewInMemoryRepository(),
		targets:   target.NewInMemoryRepository(),
		publisher: &recordingPublisher{},
	}
	standards := nutrition.NewStandardCache(nutrition.StandardCacheConfig{Logger: zerolog.Nop()})
	f.svc = food.NewService(food.ServiceConfig{
		Repository: f.repo,
		Targets:    f.targets,
		Evaluator:  nutrition.NewEvaluator(standards),
		Publisher:  f.publisher,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return now },
	})
	return f
}

func (f *fixture) withTarget(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, f.targets.Upsert(context.Background(), &nutrition.Target{
		UserID:   userID,
		Calories: 2914,
		Protein:  146,
		Carb:     364,
		Fat:      97,
		Fiber:    38,
	}))
}

func chickenRice() *food.EntryInput {
	return &food.EntryInput{
		Name:       "Chicken rice",
		MealType:   nutrition.MealLunch,
		EatingTime: time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC),
		Ingredients: []food.Ingredient{
			{Name: "chicken breast", Quantity: 150, Unit: "g", Per100: food.Density{Protein: 31, Fat: 3.6}},
			{Name: "rice", Quantity: 200, Unit: "g", Per100: food.Density{Protein: 2.7, Fat: 0.3, Carb: 28, Fiber: 0.4}},
		},
	}
}

func TestComputeDish(t *testing.T) {
	ingredients, totals := food.ComputeDish([]food.Ingredient{
		{Name: "mix", Quantity: 100, Per100: food.Density{Protein: 20, Fat: 10, Carb: 30}},
	})

	assert.Equal(t, 290.0, ingredients[0].Contribution.Calories)
	assert.Equal(t, 290.0, totals.Calories)

	ingredients, totals = food.ComputeDish([]food.Ingredient{
		{Name: "oats", Quantity: 50, Per100: food.Density{Protein: 10, Fat: 6, Carb: 60, Fiber: 10}},
		{Name: "milk", Quantity: 200, Per100: food.Density{Protein: 3, Fat: 1, Carb: 5}},
	})

	assert.InDelta(t, 5.0, ingredients[0].Contribution.Protein, 1e-9)
	assert.InDelta(t, 11.0, totals.Protein, 1e-9)
	assert.InDelta(t, 5.0, totals.Fat, 1e-9)
	assert.InDelta(t, 40.0, totals.Carb, 1e-9)
	assert.InDelta(t, 5.0, totals.Fiber, 1e-9)
	assert.InDelta(t, 11*4+5*9+40*4.0, totals.Calories, 1e-9)
	assert.InDelta(t, ingredients[0].Contribution.Calories+ingredients[1].Contribution.Calories, totals.Calories, 1e-9)
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	f.withTarget(t, "usr_1")
	ctx := context.Background()

	e, err := f.svc.Create(ctx, "usr_1", chickenRice())
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.InDelta(t, 51.9, e.Totals.Protein, 1e-9)
	assert.InDelta(t, 56.0, e.Totals.Carb, 1e-9)
	require.NotNil(t, e.NutritionScore)
	assert.GreaterOrEqual(t, *e.NutritionScore, 0)

	stored, err := f.svc.Get(ctx, "usr_1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Totals, stored.Totals)

	assert.Equal(t, []food.ChangeEvent{
		{JobType: food.JobFoodEntryChanged, UserID: "usr_1", Date: "2024-06-15"},
	}, f.publisher.events)
}

func TestService_CreateWithoutTarget(t *testing.T) {
	f := newFixture(t)

	e, err := f.svc.Create(context.Background(), "usr_1", chickenRice())
	require.NoError(t, err)
	assert.Nil(t, e.NutritionScore)
}

func TestService_CreateWithTotalsOnly(t *testing.T) {
	f := newFixture(t)

	e, err := f.svc.Create(context.Background(), "usr_1", &food.EntryInput{
		Name:   "Recognized dish",
		Totals: nutrition.Nutrients{Calories: 450, Protein: 20, Fat: 15, Carb: 55, Fiber: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 435.0, e.Totals.Calories)
	assert.Equal(t, 4.0, e.Totals.Fiber)
	assert.Equal(t, now, e.EatingTime)
	assert.Empty(t, e.Ingredients)
}

func TestService_TotalsOnlyCaloriesFollowMacros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, "usr_1", &food.EntryInput{
		Name:   "Recognized dish",
		Totals: nutrition.Nutrients{Calories: 50, Protein: 20, Fat: 10, Carb: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, 290.0, e.Totals.Calories)

	updated, err := f.svc.Update(ctx, "usr_1", e.ID, &food.EntryInput{
		Name:       "Recognized dish",
		EatingTime: now,
		Totals:     nutrition.Nutrients{Calories: 9999, Protein: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.Totals.Calories)

	stored, err := f.repo.Get(ctx, "usr_1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.Totals.Calories)
}

func TestService_EatingTimeTruncatedToMicrosecond(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	late := chickenRice()
	late.EatingTime = time.Date(2024, 6, 10, 23, 59, 59, 999999500, time.UTC)
	e, err := f.svc.Create(ctx, "usr_1", late)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 23, 59, 59, 999999000, time.UTC), e.EatingTime)

	from, to := food.DayWindow(day)
	entries, err := f.svc.List(ctx, "usr_1", food.ListOptions{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)

	lunch, err := f.svc.MealCalories(ctx, "usr_1", day, nutrition.MealLunch)
	require.NoError(t, err)
	assert.Len(t, lunch.Foods, 1)

	next, err := f.svc.MealCalories(ctx, "usr_1", day.AddDate(0, 0, 1), nutrition.MealLunch)
	require.NoError(t, err)
	assert.Empty(t, next.Foods)
}

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	input := chickenRice()
	input.Name = ""
	input.MealType = "brunch"
	input.Ingredients[1].Per100.Carb = -1

	_, err := f.svc.Create(context.Background(), "usr_1", input)

	var validationErr *nutrition.ValidationError
	require.ErrorAs(t, err, &validationErr)
	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"name", "mealType", "ingredients[1].per100"}, fields)
	assert.Empty(t, f.publisher.events)
}

func TestService_UpdateAnnouncesBothDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, "usr_1", chickenRice())
	require.NoError(t, err)

	input := chickenRice()
	input.EatingTime = time.Date(2024, 6, 16, 8, 0, 0, 0, time.UTC)
	input.Ingredients = input.Ingredients[:1]

	updated, err := f.svc.Update(ctx, "usr_1", e.ID, input)
	require.NoError(t, err)
	assert.InDelta(t, 46.5, updated.Totals.Protein, 1e-9)
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, "2024-06-15", f.publisher.events[1].Date)
	assert.Equal(t, "2024-06-16", f.publisher.events[2].Date)
}

func TestService_OwnerScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, "usr_1", chickenRice())
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "usr_2", e.ID)
	assert.ErrorIs(t, err, food.ErrEntryNotFound)

	_, err = f.svc.Update(ctx, "usr_2", e.ID, chickenRice())
	assert.ErrorIs(t, err, food.ErrEntryNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, "usr_2", e.ID), food.ErrEntryNotFound)
	require.NoError(t, f.svc.Delete(ctx, "usr_1", e.ID))

	_, err = f.svc.Get(ctx, "usr_1", e.ID)
	assert.ErrorIs(t, err, food.ErrEntryNotFound)
}

func TestService_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("pubsub unavailable")

	_, err := f.svc.Create(context.Background(), "usr_1", chickenRice())
	assert.NoError(t, err)
}

func TestService_MealCalories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "usr_1", chickenRice())
	require.NoError(t, err)

	dinner := chickenRice()
	dinner.Name = "Late dinner"
	dinner.MealType = nutrition.MealDinner
	dinner.EatingTime = time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	_, err = f.svc.Create(ctx, "usr_1", dinner)
	require.NoError(t, err)

	nextDay := chickenRice()
	nextDay.EatingTime = time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	_, err = f.svc.Create(ctx, "usr_1", nextDay)
	require.NoError(t, err)

	lunch, err := f.svc.MealCalories(ctx, "usr_1", now, nutrition.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", lunch.Date)
	require.Len(t, lunch.Foods, 1)
	assert.Equal(t, "Chicken rice", lunch.Foods[0].Name)
	assert.Equal(t, lunch.Totals.Calories, lunch.Foods[0].Calories)

	_, err = f.svc.MealCalories(ctx, "usr_1", now, "brunch")
	assert.ErrorIs(t, err, nutrition.ErrInvalidMealType)
}

func TestService_Evaluate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, "usr_1", chickenRice())
	require.NoError(t, err)

	_, err = f.svc.Evaluate(ctx, "usr_1", e.ID)
	assert.ErrorIs(t, err, target.ErrTargetNotFound)

	f.withTarget(t, "usr_1")
	evaluation, err := f.svc.Evaluate(ctx, "usr_1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, nutrition.MealLunch, evaluation.MealType)
	assert.Len(t, evaluation.MacroEvaluations, 4)
}

func TestDayWindow(t *testing.T) {
	start, end := food.DayWindow(time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 15, 23, 59, 59, 999999000, time.UTC), end)
}
