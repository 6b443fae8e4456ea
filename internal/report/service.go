// Package report aggregates food entries into daily and weekly reports.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/target"
	"github.com/nutrilog/nutrilog/internal/telemetry"
)

const tracerName = "github.com/nutrilog/nutrilog/internal/report"

// DaysPerWeek is the fixed divisor of weekly averages.
const DaysPerWeek = 7

// DefaultTopIngredients is the ingredient histogram size when the caller
// does not choose one.
const DefaultTopIngredients = 50

// EntryLister lists a user's food entries.
type EntryLister interface {
	List(ctx context.Context, userID string, opts food.ListOptions) ([]*food.Entry, error)
}

// TargetReader loads the daily target.
type TargetReader interface {
	Get(ctx context.Context, userID string) (*nutrition.Target, error)
}

// ProfileReader loads the profile used for BMI.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (*nutrition.Profile, error)
}

// ServiceConfig holds configuration for the report service.
type ServiceConfig struct {
	Repository Repository
	Entries    EntryLister
	Targets    TargetReader
	Profiles   ProfileReader
	Evaluator  *nutrition.Evaluator
	Metrics    *telemetry.EngineMetrics
	Logger     zerolog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service computes reports.
type Service struct {
	repo      Repository
	entries   EntryLister
	targets   TargetReader
	profiles  ProfileReader
	evaluator *nutrition.Evaluator
	metrics   *telemetry.EngineMetrics
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewService creates a new report service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      cfg.Repository,
		entries:   cfg.Entries,
		targets:   cfg.Targets,
		profiles:  cfg.Profiles,
		evaluator: cfg.Evaluator,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		tracer:    telemetry.Tracer(tracerName),
		now:       now,
	}
}

// GetDaily returns the stored report of a day without recomputing it.
func (s *Service) GetDaily(ctx context.Context, userID string, date time.Time) (*DailyReport, error) {
	return s.repo.Get(ctx, userID, food.DateKey(date))
}

// UpdateDaily recomputes the report of a day from its entries and overwrites
// the stored one. A missing target is tolerated.
func (s *Service) UpdateDaily(ctx context.Context, userID string, date time.Time) (rep *DailyReport, err error) {
	ctx, span := s.tracer.Start(ctx, "report.UpdateDaily", trace.WithAttributes(
		attribute.String("report.date", food.DateKey(date)),
	))
	start := time.Now()
	defer func() {
		s.finish(ctx, span, "daily", start, err)
	}()

	t, err := s.optionalTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	rep, err = s.buildDaily(ctx, userID, date, t)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, rep); err != nil {
		return nil, fmt.Errorf("store daily report: %w", err)
	}
	return rep, nil
}

// Weekly composes the seven daily reports starting at weekStart. The user
// must have a target.
func (s *Service) Weekly(ctx context.Context, userID string, weekStart time.Time) (rep *WeeklyReport, err error) {
	weekStart = startOfDay(weekStart)
	ctx, span := s.tracer.Start(ctx, "report.Weekly", trace.WithAttributes(
		attribute.String("report.week_start", food.DateKey(weekStart)),
	))
	start := time.Now()
	defer func() {
		s.finish(ctx, span, "weekly", start, err)
	}()

	t, err := s.targets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	daily := make([]*DailyReport, DaysPerWeek)
	g, gctx := errgroup.WithContext(ctx)
	for i := range daily {
		day := weekStart.AddDate(0, 0, i)
		g.Go(func() error {
			r, err := s.buildDaily(gctx, userID, day, t)
			if err != nil {
				return err
			}
			if err := s.repo.Upsert(gctx, r); err != nil {
				return fmt.Errorf("store daily report: %w", err)
			}
			daily[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep = &WeeklyReport{
		UserID:       userID,
		WeekStart:    food.DateKey(weekStart),
		WeekEnd:      food.DateKey(weekStart.AddDate(0, 0, DaysPerWeek-1)),
		DailyReports: make([]DailyReport, 0, DaysPerWeek),
		Target:       t.Nutrients(),
	}
	for _, d := range daily {
		rep.DailyReports = append(rep.DailyReports, *d)
		rep.Totals = rep.Totals.Add(d.Totals)
	}
	rep.Averages = rep.Totals.Scale(1.0 / DaysPerWeek)
	rep.Percentages = percentagesOf(rep.Averages, rep.Target)

	return rep, nil
}

// WeeklyStatistics builds the chart view of a week. A zero weekStart selects
// the Monday of the current week and a zero topIngredients selects
// DefaultTopIngredients. The user must have a profile and a target.
func (s *Service) WeeklyStatistics(ctx context.Context, userID string, weekStart time.Time, topIngredients int) (stats *WeeklyStatistics, err error) {
	switch {
	case topIngredients == 0:
		topIngredients = DefaultTopIngredients
	case topIngredients < 0:
		return nil, &nutrition.ValidationError{Errors: []nutrition.FieldError{
			{Field: "top", Message: "must be greater than 0", Code: "INVALID_VALUE"},
		}}
	}
	if weekStart.IsZero() {
		weekStart = MondayOf(s.now())
	}
	weekStart = startOfDay(weekStart)

	ctx, span := s.tracer.Start(ctx, "report.WeeklyStatistics", trace.WithAttributes(
		attribute.String("report.week_start", food.DateKey(weekStart)),
	))
	start := time.Now()
	defer func() {
		s.finish(ctx, span, "weekly_statistics", start, err)
	}()

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	t, err := s.targets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	days := make([][]*food.Entry, DaysPerWeek)
	g, gctx := errgroup.WithContext(ctx)
	for i := range days {
		from, to := food.DayWindow(weekStart.AddDate(0, 0, i))
		g.Go(func() error {
			entries, err := s.entries.List(gctx, userID, food.ListOptions{From: from, To: to})
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			days[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bmi := nutrition.BMI(p.WeightKg, p.HeightCm)
	stats = &WeeklyStatistics{
		UserID:      userID,
		WeekStart:   food.DateKey(weekStart),
		WeekEnd:     food.DateKey(weekStart.AddDate(0, 0, DaysPerWeek-1)),
		Dates:       make([]string, 0, DaysPerWeek),
		BMI:         bmi,
		BMICategory: nutrition.BMICategory(bmi),
	}

	totals := make([]nutrition.Nutrients, 0, DaysPerWeek)
	scores := make([]int, 0, DaysPerWeek)
	histogram := newIngredientHistogram()

	for i, entries := range days {
		stats.Dates = append(stats.Dates, food.DateKey(weekStart.AddDate(0, 0, i)))

		var dayTotals nutrition.Nutrients
		var scoreSum, scored int
		for _, e := range entries {
			dayTotals = dayTotals.Add(e.Totals)
			if e.NutritionScore != nil {
				scoreSum += *e.NutritionScore
				scored++
			}
			for _, ing := range e.Ingredients {
				histogram.add(ing.Name)
			}
		}

		dayScore := 0
		if scored > 0 {
			dayScore = int(math.Round(float64(scoreSum) / float64(scored)))
		}
		totals = append(totals, dayTotals)
		scores = append(scores, dayScore)
	}

	var weekTotals nutrition.Nutrients
	for _, d := range totals {
		weekTotals = weekTotals.Add(d)
	}
	averages := weekTotals.Scale(1.0 / DaysPerWeek)
	daily := t.Nutrients()

	reviews, err := s.weeklyReviews(ctx, averages, t)
	if err != nil {
		return nil, err
	}

	stats.NutritionScore = scoreSeries(scores)
	stats.Calories = series(totals, func(n nutrition.Nutrients) float64 { return n.Calories }, math.Round(averages.Calories), averages.Calories, daily.Calories, reviews[nutrition.NutrientCalories])
	stats.Protein = series(totals, func(n nutrition.Nutrients) float64 { return n.Protein }, roundTo1(averages.Protein), averages.Protein, daily.Protein, reviews[nutrition.NutrientProtein])
	stats.Fat = series(totals, func(n nutrition.Nutrients) float64 { return n.Fat }, roundTo1(averages.Fat), averages.Fat, daily.Fat, reviews[nutrition.NutrientFat])
	stats.Carb = series(totals, func(n nutrition.Nutrients) float64 { return n.Carb }, roundTo1(averages.Carb), averages.Carb, daily.Carb, reviews[nutrition.NutrientCarbs])
	stats.Fiber = series(totals, func(n nutrition.Nutrients) float64 { return n.Fiber }, roundTo1(averages.Fiber), averages.Fiber, daily.Fiber, reviews[nutrition.NutrientFiber])
	stats.FoodDiversity = histogram.top(topIngredients)

	return stats, nil
}

// MondayOf returns the Monday 00:00 UTC of the ISO week containing t.
func MondayOf(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func (s *Service) buildDaily(ctx context.Context, userID string, date time.Time, t *nutrition.Target) (*DailyReport, error) {
	from, to := food.DayWindow(date)
	entries, err := s.entries.List(ctx, userID, food.ListOptions{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	rep := &DailyReport{
		UserID:      userID,
		Date:        food.DateKey(date),
		Meals:       []MealBreakdown{},
		GeneratedAt: s.now().UTC(),
	}

	index := make(map[nutrition.MealType]int)
	for _, e := range entries {
		rep.Totals = rep.Totals.Add(e.Totals)

		mealType := e.MealType
		if mealType == "" {
			mealType = nutrition.MealOther
		}
		i, ok := index[mealType]
		if !ok {
			i = len(rep.Meals)
			index[mealType] = i
			rep.Meals = append(rep.Meals, MealBreakdown{MealType: mealType, Foods: []FoodRef{}})
		}
		rep.Meals[i].Calories += e.Totals.Calories
		rep.Meals[i].Foods = append(rep.Meals[i].Foods, FoodRef{ID: e.ID, Name: e.Name})
	}

	if t != nil {
		daily := t.Nutrients()
		pct := percentagesOf(rep.Totals, daily)
		rep.Target = &daily
		rep.Percentages = &pct
	}
	return rep, nil
}

func (s *Service) optionalTarget(ctx context.Context, userID string) (*nutrition.Target, error) {
	t, err := s.targets.Get(ctx, userID)
	if errors.Is(err, target.ErrTargetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}
	return t, nil
}

// weeklyReviews runs the week's average day through the evaluator as a
// synthetic weekly meal and returns the comment per nutrient.
func (s *Service) weeklyReviews(ctx context.Context, averages nutrition.Nutrients, t *nutrition.Target) (map[nutrition.Nutrient]string, error) {
	reviews := make(map[nutrition.Nutrient]string)
	if s.evaluator == nil {
		return reviews, nil
	}

	evaluation, err := s.evaluator.Evaluate(ctx, nutrition.MealInput{
		MealType:  nutrition.MealWeekly,
		Nutrients: averages,
	}, t)
	if err != nil {
		return nil, fmt.Errorf("evaluate week: %w", err)
	}

	reviews[nutrition.NutrientCalories] = evaluation.CalorieComment
	for n, m := range evaluation.MacroEvaluations {
		reviews[n] = m.Comment
	}
	return reviews, nil
}

func (s *Service) finish(ctx context.Context, span trace.Span, kind string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	s.metrics.RecordCompute(ctx, kind, time.Since(start), err)
}

func series(days []nutrition.Nutrients, pick func(nutrition.Nutrients) float64, average, exactAverage, target float64, review string) NutrientSeries {
	values := make([]float64, 0, len(days))
	for _, d := range days {
		values = append(values, pick(d))
	}

	deviation := 0
	if target != 0 {
		deviation = int(math.Round((exactAverage/target - 1) * 100))
	}

	return NutrientSeries{
		DailyValues: values,
		Average:     average,
		Target:      target,
		Deviation:   deviation,
		Review:      review,
	}
}

func scoreSeries(scores []int) ScoreSeries {
	out := ScoreSeries{DailyScores: scores}
	if len(scores) == 0 {
		return out
	}

	sum := 0
	out.Max, out.Min = scores[0], scores[0]
	for _, sc := range scores {
		sum += sc
		out.Max = max(out.Max, sc)
		out.Min = min(out.Min, sc)
	}
	out.Average = int(math.Round(float64(sum) / DaysPerWeek))
	return out
}

// ingredientHistogram counts ingredients by case-insensitive name, keeping
// the first spelling seen for display.
type ingredientHistogram struct {
	counts map[string]*IngredientCount
}

func newIngredientHistogram() *ingredientHistogram {
	return &ingredientHistogram{counts: make(map[string]*IngredientCount)}
}

func (h *ingredientHistogram) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if c, ok := h.counts[key]; ok {
		c.Count++
		return
	}
	h.counts[key] = &IngredientCount{Name: name, Count: 1}
}

func (h *ingredientHistogram) top(n int) FoodDiversity {
	all := make([]IngredientCount, 0, len(h.counts))
	for _, c := range h.counts {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Name < all[j].Name
	})
	if len(all) > n {
		all = all[:n]
	}
	return FoodDiversity{TotalCount: len(h.counts), Ingredients: all}
}

func startOfDay(t time.Time) time.Time {
	start, _ := food.DayWindow(t)
	return start
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
