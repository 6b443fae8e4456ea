// Package api provides the HTTP API for NutriLog.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/api/handler"
	"github.com/nutrilog/nutrilog/internal/api/middleware"
	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/profile"
	"github.com/nutrilog/nutrilog/internal/report"
	"github.com/nutrilog/nutrilog/internal/storage"
	"github.com/nutrilog/nutrilog/internal/target"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	Metrics       *middleware.Metrics
	Authenticator middleware.TokenAuthenticator

	// RequireTLS rejects requests forwarded over plain HTTP.
	RequireTLS bool

	Profiles    *profile.Service
	Targets     *target.Service
	Foods       *food.Service
	Comparisons *comparison.Service
	Reports     *report.Service
	Standards   *nutrition.StandardCache

	// Stores reports storage circuit state for readiness. Optional.
	Stores *storage.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing()) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, no-store)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	var stores handler.StoreHealthReporter
	if cfg.Stores != nil {
		stores = cfg.Stores
	}

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, stores)
	mealTypeHandler := handler.NewMealTypeHandler(cfg.Standards)
	profileHandler := handler.NewProfileHandler(cfg.Profiles)
	targetHandler := handler.NewTargetHandler(cfg.Targets)
	foodHandler := handler.NewFoodHandler(cfg.Foods, cfg.Comparisons)
	reportHandler := handler.NewReportHandler(cfg.Reports)

	authMiddleware := middleware.Auth(cfg.Authenticator)

	// Create rate limit middleware for different endpoint categories
	adminRateLimit := middleware.RateLimitByUser(middleware.AdminRateLimit)         // 10 req/min
	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)     // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/meal-types", mealTypeHandler.ListMealTypes)
			r.Get("/meal-types/{mealType}", mealTypeHandler.GetMealType)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Use(middleware.RequireJSON)

			// Profile and target
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpsertProfile)
			r.Patch("/profile", profileHandler.PatchProfile)
			r.Get("/progress", profileHandler.GetProgress)
			r.Get("/nutrition-target", targetHandler.GetTarget)
			r.Post("/nutrition-target:recalculate", targetHandler.Recalculate)

			// Food entries
			r.Route("/foods", func(r chi.Router) {
				r.Get("/", foodHandler.ListFoods)
				r.Post("/", foodHandler.CreateFood)
				r.Route("/{foodId}", func(r chi.Router) {
					r.Get("/", foodHandler.GetFood)
					r.Put("/", foodHandler.UpdateFood)
					r.Delete("/", foodHandler.DeleteFood)
					r.Get("/evaluation", foodHandler.EvaluateFood)
					r.Get("/comparisons", foodHandler.ListComparisons)
					r.Post("/comparisons", foodHandler.CreateComparison)
				})
			})
			r.Get("/comparisons/{comparisonId}", foodHandler.GetComparison)
			r.Get("/meals/{mealType}/calories", foodHandler.MealCalories)

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Post("/daily/{date}", reportHandler.UpdateDaily)
				r.Get("/daily/{date}", reportHandler.GetDaily)
				r.Get("/weekly/{weekStart}", reportHandler.Weekly)

				// Weekly statistics aggregates seven days plus reviews
				r.With(expensiveRateLimit).Get("/weekly-statistics", reportHandler.WeeklyStatistics)
			})
		})

		// Admin endpoints (authenticated) - meal type standard management
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminRateLimit)
			r.Use(middleware.RequireJSON)

			r.Put("/meal-types/{mealType}", mealTypeHandler.PutMealType)
			r.Post("/meal-types/invalidate", mealTypeHandler.InvalidateMealTypes)
		})
	})

	return r
}
