package comparison

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL comparison repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const comparisonColumns = `
	id, user_id, food_id,
	diff_calories, diff_protein, diff_fat, diff_carb, diff_fiber,
	created_at
`

// Get retrieves a comparison owned by userID.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*Comparison, error) {
	query := `SELECT ` + comparisonColumns + ` FROM nutrition_comparisons WHERE id = $1 AND user_id = $2`

	c, err := scanComparison(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrComparisonNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByFood retrieves the comparisons of one entry, newest first.
func (r *PostgresRepository) ListByFood(ctx context.Context, userID, foodID string) ([]*Comparison, error) {
	query := `SELECT ` + comparisonColumns + ` FROM nutrition_comparisons
		WHERE user_id = $1 AND food_id = $2
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, foodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Comparison
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Insert stores a new comparison.
func (r *PostgresRepository) Insert(ctx context.Context, c *Comparison) error {
	query := `
		INSERT INTO nutrition_comparisons (` + comparisonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	p := c.Percentages
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.FoodID,
		p.Calories, p.Protein, p.Fat, p.Carb, p.Fiber,
		c.CreatedAt,
	)
	return err
}

func scanComparison(row pgx.Row) (*Comparison, error) {
	var c Comparison
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FoodID,
		&c.Percentages.Calories,
		&c.Percentages.Protein,
		&c.Percentages.Fat,
		&c.Percentages.Carb,
		&c.Percentages.Fiber,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ Repository = (*PostgresRepository)(nil)
