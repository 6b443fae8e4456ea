package target

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL target repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the target of a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*nutrition.Target, error) {
	query := `
		SELECT user_id, bmr, tdee, calories, protein, carb, fat, fiber, water, updated_at
		FROM nutrition_targets
		WHERE user_id = $1
	`

	var t nutrition.Target
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&t.UserID,
		&t.BMR,
		&t.TDEE,
		&t.Calories,
		&t.Protein,
		&t.Carb,
		&t.Fat,
		&t.Fiber,
		&t.Water,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}

	return &t, nil
}

// Upsert replaces the target of a user.
func (r *PostgresRepository) Upsert(ctx context.Context, t *nutrition.Target) error {
	query := `
		INSERT INTO nutrition_targets (user_id, bmr, tdee, calories, protein, carb, fat, fiber, water, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			bmr = EXCLUDED.bmr,
			tdee = EXCLUDED.tdee,
			calories = EXCLUDED.calories,
			protein = EXCLUDED.protein,
			carb = EXCLUDED.carb,
			fat = EXCLUDED.fat,
			fiber = EXCLUDED.fiber,
			water = EXCLUDED.water,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		t.UserID, t.BMR, t.TDEE, t.Calories, t.Protein, t.Carb, t.Fat, t.Fiber, t.Water, t.UpdatedAt,
	)
	return err
}

var _ Repository = (*PostgresRepository)(nil)
