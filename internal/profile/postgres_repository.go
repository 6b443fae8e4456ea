package profile

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

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the profile of a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*nutrition.Profile, error) {
	query := `
		SELECT
			user_id, gender, birthdate, height_cm, weight_kg,
			activity_level, goal, diet_type,
			desired_weight_kg, goal_duration_weeks,
			created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p nutrition.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Gender,
		&p.Birthdate,
		&p.HeightCm,
		&p.WeightKg,
		&p.ActivityLevel,
		&p.Goal,
		&p.DietType,
		&p.DesiredWeight,
		&p.GoalDuration,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

// Upsert creates or replaces a profile. created_at is kept on update.
func (r *PostgresRepository) Upsert(ctx context.Context, p *nutrition.Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, gender, birthdate, height_cm, weight_kg,
			activity_level, goal, diet_type,
			desired_weight_kg, goal_duration_weeks,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			birthdate = EXCLUDED.birthdate,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			diet_type = EXCLUDED.diet_type,
			desired_weight_kg = EXCLUDED.desired_weight_kg,
			goal_duration_weeks = EXCLUDED.goal_duration_weeks,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		p.UserID,
		string(p.Gender),
		p.Birthdate,
		p.HeightCm,
		p.WeightKg,
		string(p.ActivityLevel),
		string(p.Goal),
		string(p.DietType),
		p.DesiredWeight,
		p.GoalDuration,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
