package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Migration is one forward-only schema change.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "profiles_and_targets",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS profiles (
				user_id             TEXT PRIMARY KEY,
				gender              TEXT NOT NULL,
				birthdate           DATE NOT NULL,
				height_cm           DOUBLE PRECISION NOT NULL,
				weight_kg           DOUBLE PRECISION NOT NULL,
				activity_level      TEXT NOT NULL,
				goal                TEXT NOT NULL,
				diet_type           TEXT NOT NULL,
				desired_weight_kg   DOUBLE PRECISION,
				goal_duration_weeks INTEGER,
				created_at          TIMESTAMPTZ NOT NULL,
				updated_at          TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS nutrition_targets (
				user_id    TEXT PRIMARY KEY REFERENCES profiles (user_id) ON DELETE CASCADE,
				bmr        DOUBLE PRECISION NOT NULL,
				tdee       DOUBLE PRECISION NOT NULL,
				calories   DOUBLE PRECISION NOT NULL,
				protein    DOUBLE PRECISION NOT NULL,
				carb       DOUBLE PRECISION NOT NULL,
				fat        DOUBLE PRECISION NOT NULL,
				fiber      DOUBLE PRECISION NOT NULL,
				water      DOUBLE PRECISION NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
		},
	},
	{
		Version: 2,
		Name:    "food_entries_and_comparisons",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS food_entries (
				id              TEXT PRIMARY KEY,
				user_id         TEXT NOT NULL,
				name            TEXT NOT NULL,
				meal_type       TEXT NOT NULL DEFAULT '',
				eating_time     TIMESTAMPTZ NOT NULL,
				description     TEXT NOT NULL DEFAULT '',
				volume_ml       DOUBLE PRECISION,
				ingredients     JSONB NOT NULL DEFAULT '[]',
				total_calories  DOUBLE PRECISION NOT NULL,
				total_protein   DOUBLE PRECISION NOT NULL,
				total_fat       DOUBLE PRECISION NOT NULL,
				total_carb      DOUBLE PRECISION NOT NULL,
				total_fiber     DOUBLE PRECISION NOT NULL,
				nutrition_score INTEGER,
				created_at      TIMESTAMPTZ NOT NULL,
				updated_at      TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS food_entries_user_time_idx ON food_entries (user_id, eating_time)`,
			`CREATE TABLE IF NOT EXISTS nutrition_comparisons (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL,
				food_id       TEXT NOT NULL REFERENCES food_entries (id) ON DELETE CASCADE,
				diff_calories INTEGER,
				diff_protein  INTEGER,
				diff_fat      INTEGER,
				diff_carb     INTEGER,
				diff_fiber    INTEGER,
				created_at    TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS nutrition_comparisons_food_idx ON nutrition_comparisons (user_id, food_id, created_at)`,
		},
	},
	{
		Version: 3,
		Name:    "daily_reports",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS daily_reports (
				user_id      TEXT NOT NULL,
				report_date  DATE NOT NULL,
				body         JSONB NOT NULL,
				generated_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_id, report_date)
			)`,
		},
	},
	{
		Version: 4,
		Name:    "meal_type_standards",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS meal_type_standards (
				meal_type              TEXT PRIMARY KEY,
				calorie_percentage     DOUBLE PRECISION,
				ratio_carb             DOUBLE PRECISION NOT NULL,
				ratio_protein          DOUBLE PRECISION NOT NULL,
				ratio_fat              DOUBLE PRECISION NOT NULL,
				max_calories           DOUBLE PRECISION,
				max_calories_per_100ml DOUBLE PRECISION,
				description            TEXT NOT NULL DEFAULT '',
				updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
	},
}

// Migrations returns the schema migrations in the order they are applied.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

// Migrate applies every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := isApplied(ctx, pool, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := apply(ctx, pool, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		logger.Info().Int("version", m.Version).Str("name", m.Name).Msg("applied migration")
	}
	return nil
}

func isApplied(ctx context.Context, pool *pgxpool.Pool, version int) (bool, error) {
	var v int
	err := pool.QueryRow(ctx, `SELECT version FROM schema_migrations WHERE version = $1`, version).Scan(&v)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	return true, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, m Migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range m.Statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SeedStandards inserts the default meal-type standards that are not
// already stored. Existing rows, including edited ones, are left alone.
func SeedStandards(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	defaults := nutrition.DefaultStandards()

	inserted := 0
	for _, mealType := range nutrition.MealTypes() {
		std := defaults[mealType]
		tag, err := pool.Exec(ctx, `
			INSERT INTO meal_type_standards (
				meal_type, calorie_percentage,
				ratio_carb, ratio_protein, ratio_fat,
				max_calories, max_calories_per_100ml, description
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (meal_type) DO NOTHING
		`,
			string(std.MealType),
			std.CaloriePercentage,
			std.Ratio.Carb,
			std.Ratio.Protein,
			std.Ratio.Fat,
			std.MaxCalories,
			std.MaxCaloriesPer100ml,
			std.Description,
		)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", mealType, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
