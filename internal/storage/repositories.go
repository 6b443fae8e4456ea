package storage

import (
	"context"

	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/profile"
	"github.com/nutrilog/nutrilog/internal/report"
	"github.com/nutrilog/nutrilog/internal/target"
)

// Store names used for executors and health reporting.
const (
	StoreProfiles    = "profiles"
	StoreTargets     = "targets"
	StoreFoodEntries = "food_entries"
	StoreComparisons = "comparisons"
	StoreReports     = "reports"
	StoreStandards   = "meal_type_standards"
)

// Repositories bundles every guarded repository.
type Repositories struct {
	Profiles    profile.Repository
	Targets     target.Repository
	Entries     food.Repository
	Comparisons comparison.Repository
	Reports     report.Repository
	Standards   nutrition.StandardRepository
}

// Guard wraps each repository of repos with its own executor registered in
// reg. Transient failures are retried up to maxRetries times.
func Guard(reg *Registry, repos Repositories, maxRetries uint64) Repositories {
	cfg := func(name string, expected error) ExecutorConfig {
		c := DefaultExecutorConfig(name, expected)
		c.MaxRetries = maxRetries
		return c
	}

	return Repositories{
		Profiles: &ProfileRepository{
			inner: repos.Profiles,
			exec:  reg.NewExecutor(cfg(StoreProfiles, profile.ErrProfileNotFound)),
		},
		Targets: &TargetRepository{
			inner: repos.Targets,
			exec:  reg.NewExecutor(cfg(StoreTargets, target.ErrTargetNotFound)),
		},
		Entries: &FoodRepository{
			inner: repos.Entries,
			exec:  reg.NewExecutor(cfg(StoreFoodEntries, food.ErrEntryNotFound)),
		},
		Comparisons: &ComparisonRepository{
			inner: repos.Comparisons,
			exec:  reg.NewExecutor(cfg(StoreComparisons, comparison.ErrComparisonNotFound)),
		},
		Reports: &ReportRepository{
			inner: repos.Reports,
			exec:  reg.NewExecutor(cfg(StoreReports, report.ErrReportNotFound)),
		},
		Standards: &StandardRepository{
			inner: repos.Standards,
			exec:  reg.NewExecutor(cfg(StoreStandards, nutrition.ErrStandardNotFound)),
		},
	}
}

// ProfileRepository guards a profile.Repository.
type ProfileRepository struct {
	inner profile.Repository
	exec  *Executor
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*nutrition.Profile, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) (*nutrition.Profile, error) {
		return r.inner.Get(ctx, userID)
	})
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *nutrition.Profile) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Upsert(ctx, p)
	})
}

// TargetRepository guards a target.Repository.
type TargetRepository struct {
	inner target.Repository
	exec  *Executor
}

func (r *TargetRepository) Get(ctx context.Context, userID string) (*nutrition.Target, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) (*nutrition.Target, error) {
		return r.inner.Get(ctx, userID)
	})
}

func (r *TargetRepository) Upsert(ctx context.Context, t *nutrition.Target) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Upsert(ctx, t)
	})
}

// FoodRepository guards a food.Repository.
type FoodRepository struct {
	inner food.Repository
	exec  *Executor
}

func (r *FoodRepository) Get(ctx context.Context, userID, id string) (*food.Entry, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) (*food.Entry, error) {
		return r.inner.Get(ctx, userID, id)
	})
}

func (r *FoodRepository) List(ctx context.Context, userID string, opts food.ListOptions) ([]*food.Entry, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) ([]*food.Entry, error) {
		return r.inner.List(ctx, userID, opts)
	})
}

func (r *FoodRepository) Create(ctx context.Context, e *food.Entry) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Create(ctx, e)
	})
}

func (r *FoodRepository) Update(ctx context.Context, e *food.Entry) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Update(ctx, e)
	})
}

func (r *FoodRepository) Delete(ctx context.Context, userID, id string) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Delete(ctx, userID, id)
	})
}

// ComparisonRepository guards a comparison.Repository.
type ComparisonRepository struct {
	inner comparison.Repository
	exec  *Executor
}

func (r *ComparisonRepository) Get(ctx context.Context, userID, id string) (*comparison.Comparison, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) (*comparison.Comparison, error) {
		return r.inner.Get(ctx, userID, id)
	})
}

func (r *ComparisonRepository) ListByFood(ctx context.Context, userID, foodID string) ([]*comparison.Comparison, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) ([]*comparison.Comparison, error) {
		return r.inner.ListByFood(ctx, userID, foodID)
	})
}

func (r *ComparisonRepository) Insert(ctx context.Context, c *comparison.Comparison) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Insert(ctx, c)
	})
}

// ReportRepository guards a report.Repository.
type ReportRepository struct {
	inner report.Repository
	exec  *Executor
}

func (r *ReportRepository) Get(ctx context.Context, userID, date string) (*report.DailyReport, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) (*report.DailyReport, error) {
		return r.inner.Get(ctx, userID, date)
	})
}

func (r *ReportRepository) Upsert(ctx context.Context, rep *report.DailyReport) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Upsert(ctx, rep)
	})
}

// StandardRepository guards a nutrition.StandardRepository.
type StandardRepository struct {
	inner nutrition.StandardRepository
	exec  *Executor
}

func (r *StandardRepository) Get(ctx context.Context, mealType nutrition.MealType) (*nutrition.MealTypeStandard, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) (*nutrition.MealTypeStandard, error) {
		return r.inner.Get(ctx, mealType)
	})
}

func (r *StandardRepository) List(ctx context.Context) ([]*nutrition.MealTypeStandard, error) {
	return Execute(ctx, r.exec, func(ctx context.Context) ([]*nutrition.MealTypeStandard, error) {
		return r.inner.List(ctx)
	})
}

func (r *StandardRepository) Upsert(ctx context.Context, std *nutrition.MealTypeStandard) error {
	return r.exec.Run(ctx, func(ctx context.Context) error {
		return r.inner.Upsert(ctx, std)
	})
}

var (
	_ profile.Repository           = (*ProfileRepository)(nil)
	_ target.Repository            = (*TargetRepository)(nil)
	_ food.Repository              = (*FoodRepository)(nil)
	_ comparison.Repository        = (*ComparisonRepository)(nil)
	_ report.Repository            = (*ReportRepository)(nil)
	_ nutrition.StandardRepository = (*StandardRepository)(nil)
)
