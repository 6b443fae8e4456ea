package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/api/handler"
	"github.com/nutrilog/nutrilog/internal/api/middleware"
	"github.com/nutrilog/nutrilog/internal/api/models"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/profile"
	"github.com/nutrilog/nutrilog/internal/report"
	"github.com/nutrilog/nutrilog/internal/storage"
	"github.com/nutrilog/nutrilog/internal/target"
)

type staticAuthenticator string

func (a staticAuthenticator) Authenticate(string) (string, error) { return string(a), nil }

// stubReports answers every read with err.
type stubReports struct {
	*report.InMemoryRepository
	err error
}

func (s stubReports) Get(context.Context, string, string) (*report.DailyReport, error) {
	return nil, s.err
}

func newReportRouter(repo report.Repository) http.Handler {
	h := handler.NewReportHandler(report.NewService(report.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
	}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(staticAuthenticator("usr_1")))
	r.Get("/daily/{date}", h.GetDaily)
	r.Get("/weekly-statistics", h.WeeklyStatistics)
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetDaily_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		code        int
		problemType string
	}{
		{"not found", report.ErrReportNotFound, http.StatusNotFound, models.ProblemTypeNotFound},
		{"circuit open", storage.ErrCircuitOpen, http.StatusServiceUnavailable, models.ProblemTypeStorageUnavailable},
		{"wrapped circuit open", errors.Join(errors.New("get report"), storage.ErrCircuitOpen), http.StatusServiceUnavailable, models.ProblemTypeStorageUnavailable},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, models.ProblemTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newReportRouter(stubReports{InMemoryRepository: report.NewInMemoryRepository(), err: tt.err})

			w := get(router, "/daily/2024-06-10")

			assert.Equal(t, tt.code, w.Code)
			var problem models.Problem
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			assert.Equal(t, tt.problemType, problem.Type)
			assert.Equal(t, "/daily/2024-06-10", problem.Instance)
			assert.NotEmpty(t, problem.TraceID)
		})
	}
}

func TestGetDaily_MalformedDate(t *testing.T) {
	router := newReportRouter(report.NewInMemoryRepository())

	w := get(router, "/daily/10-06-2024")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "date", problem.Errors[0].Field)
	assert.Equal(t, "INVALID_FORMAT", problem.Errors[0].Code)
}

func TestWeeklyStatistics_MalformedWeekStart(t *testing.T) {
	router := newReportRouter(report.NewInMemoryRepository())

	w := get(router, "/weekly-statistics?weekStart=next-monday")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeeklyStatistics_InvalidTop(t *testing.T) {
	router := newReportRouter(report.NewInMemoryRepository())

	for _, top := range []string{"0", "-5", "ten", "2.5"} {
		t.Run(top, func(t *testing.T) {
			w := get(router, "/weekly-statistics?weekStart=2024-06-10&top="+top)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var problem models.Problem
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, "top", problem.Errors[0].Field)
		})
	}
}

func TestWeeklyStatistics_TopLimitsIngredients(t *testing.T) {
	ctx := context.Background()
	entries := food.NewInMemoryRepository()
	targets := target.NewInMemoryRepository()
	profiles := profile.NewInMemoryRepository()
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, profiles.Upsert(ctx, &nutrition.Profile{
		UserID:        "usr_1",
		Gender:        nutrition.GenderFemale,
		Birthdate:     time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
		HeightCm:      165,
		WeightKg:      60,
		ActivityLevel: nutrition.ActivityLightlyActive,
		Goal:          nutrition.GoalMaintain,
		DietType:      nutrition.DietBalanced,
	}))
	require.NoError(t, targets.Upsert(ctx, &nutrition.Target{UserID: "usr_1", Calories: 2000, Protein: 100, Carb: 250, Fat: 67, Fiber: 25}))
	require.NoError(t, entries.Create(ctx, &food.Entry{
		ID: "fd_1", UserID: "usr_1", Name: "Salad", MealType: nutrition.MealLunch,
		EatingTime:  monday.Add(12 * time.Hour),
		Ingredients: []food.Ingredient{{Name: "Lettuce"}, {Name: "Tomato"}, {Name: "Feta"}},
	}))

	h := handler.NewReportHandler(report.NewService(report.ServiceConfig{
		Repository: report.NewInMemoryRepository(),
		Entries:    entries,
		Targets:    targets,
		Profiles:   profiles,
		Evaluator:  nutrition.NewEvaluator(nutrition.NewStandardCache(nutrition.StandardCacheConfig{Logger: zerolog.Nop()})),
		Logger:     zerolog.Nop(),
	}))
	r := chi.NewRouter()
	r.Use(middleware.Auth(staticAuthenticator("usr_1")))
	r.Get("/weekly-statistics", h.WeeklyStatistics)

	w := get(r, "/weekly-statistics?weekStart=2024-06-10&top=2")

	require.Equal(t, http.StatusOK, w.Code)
	var stats report.WeeklyStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.FoodDiversity.TotalCount)
	assert.Len(t, stats.FoodDiversity.Ingredients, 2)
}
