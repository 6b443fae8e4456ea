// Package app wires the NutriLog services shared by the API and worker binaries.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/comparison"
	"github.com/nutrilog/nutrilog/internal/database"
	"github.com/nutrilog/nutrilog/internal/food"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/profile"
	"github.com/nutrilog/nutrilog/internal/report"
	"github.com/nutrilog/nutrilog/internal/storage"
	"github.com/nutrilog/nutrilog/internal/target"
	"github.com/nutrilog/nutrilog/internal/telemetry"
)

// Config holds what is needed to build the services.
type Config struct {
	Database database.Config

	// MaxRetries bounds storage retries of transient failures.
	MaxRetries uint64

	// Publisher receives food entry change events. Defaults to food.NoopPublisher.
	Publisher food.Publisher

	// Metrics records report computations. Optional.
	Metrics *telemetry.EngineMetrics

	Logger zerolog.Logger
}

// App holds the wired services.
type App struct {
	Registry    *storage.Registry
	Standards   *nutrition.StandardCache
	Profiles    *profile.Service
	Targets     *target.Service
	Foods       *food.Service
	Comparisons *comparison.Service
	Reports     *report.Service

	pool *pgxpool.Pool
}

// New connects storage and builds every service. With an in-memory database
// config no connection is made; otherwise the schema is migrated and the
// default meal-type standards are seeded.
func New(ctx context.Context, cfg Config) (*App, error) {
	log := cfg.Logger

	a := &App{Registry: storage.NewRegistry()}

	var raw storage.Repositories
	if cfg.Database.InMemory() {
		raw = inMemoryRepositories()
		log.Warn().Msg("using in-memory repositories, data is lost on restart")
	} else {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.pool = pool

		if err := database.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		seeded, err := database.SeedStandards(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("seeding meal-type standards: %w", err)
		}

		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Int("standards_seeded", seeded).
			Msg("database connected")

		raw = postgresRepositories(pool)
	}

	repos := storage.Guard(a.Registry, raw, cfg.MaxRetries)

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = food.NoopPublisher{}
	}

	a.Standards = nutrition.NewStandardCache(nutrition.StandardCacheConfig{
		Repository: repos.Standards,
		Logger:     log,
	})
	evaluator := nutrition.NewEvaluator(a.Standards)

	a.Targets = target.NewService(target.ServiceConfig{
		Repository: repos.Targets,
		Profiles:   repos.Profiles,
		Logger:     log,
	})
	a.Profiles = profile.NewService(profile.ServiceConfig{
		Repository: repos.Profiles,
		Targets:    a.Targets,
		Logger:     log,
	})
	a.Foods = food.NewService(food.ServiceConfig{
		Repository: repos.Entries,
		Targets:    a.Targets,
		Evaluator:  evaluator,
		Publisher:  publisher,
		Logger:     log,
	})
	a.Comparisons = comparison.NewService(comparison.ServiceConfig{
		Repository: repos.Comparisons,
		Foods:      a.Foods,
		Targets:    a.Targets,
		Logger:     log,
	})
	a.Reports = report.NewService(report.ServiceConfig{
		Repository: repos.Reports,
		Entries:    repos.Entries,
		Targets:    a.Targets,
		Profiles:   a.Profiles,
		Evaluator:  evaluator,
		Metrics:    cfg.Metrics,
		Logger:     log,
	})

	return a, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func inMemoryRepositories() storage.Repositories {
	return storage.Repositories{
		Profiles:    profile.NewInMemoryRepository(),
		Targets:     target.NewInMemoryRepository(),
		Entries:     food.NewInMemoryRepository(),
		Comparisons: comparison.NewInMemoryRepository(),
		Reports:     report.NewInMemoryRepository(),
		Standards:   nutrition.NewInMemoryStandardRepository(),
	}
}

func postgresRepositories(pool *pgxpool.Pool) storage.Repositories {
	return storage.Repositories{
		Profiles:    profile.NewPostgresRepository(pool),
		Targets:     target.NewPostgresRepository(pool),
		Entries:     food.NewPostgresRepository(pool),
		Comparisons: comparison.NewPostgresRepository(pool),
		Reports:     report.NewPostgresRepository(pool),
		Standards:   nutrition.NewPostgresStandardRepository(pool),
	}
}
