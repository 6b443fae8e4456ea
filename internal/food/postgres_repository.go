package food

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Ingredients are stored as a JSONB array on the entry row.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL food entry repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const entryColumns = `
	id, user_id, name, meal_type, eating_time, description, volume_ml, ingredients,
	total_calories, total_protein, total_fat, total_carb, total_fiber,
	nutrition_score, created_at, updated_at
`

// Get retrieves an entry owned by userID.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM food_entries WHERE id = $1 AND user_id = $2`

	e, err := scanEntry(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// List retrieves a user's entries ordered by eating time.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) ([]*Entry, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if !opts.From.IsZero() {
		args = append(args, opts.From)
		conditions = append(conditions, fmt.Sprintf("eating_time >= $%d", len(args)))
	}
	if !opts.To.IsZero() {
		args = append(args, opts.To)
		conditions = append(conditions, fmt.Sprintf("eating_time <= $%d", len(args)))
	}
	if opts.MealType != "" {
		args = append(args, string(opts.MealType))
		conditions = append(conditions, fmt.Sprintf("meal_type = $%d", len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM food_entries WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY eating_time, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create creates a new entry.
func (r *PostgresRepository) Create(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO food_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.Name,
		string(e.MealType),
		e.EatingTime,
		e.Description,
		e.VolumeMl,
		ingredientsOrEmpty(e.Ingredients),
		e.Totals.Calories,
		e.Totals.Protein,
		e.Totals.Fat,
		e.Totals.Carb,
		e.Totals.Fiber,
		e.NutritionScore,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

// Update replaces an existing entry.
func (r *PostgresRepository) Update(ctx context.Context, e *Entry) error {
	query := `
		UPDATE food_entries SET
			name = $3,
			meal_type = $4,
			eating_time = $5,
			description = $6,
			volume_ml = $7,
			ingredients = $8,
			total_calories = $9,
			total_protein = $10,
			total_fat = $11,
			total_carb = $12,
			total_fiber = $13,
			nutrition_score = $14,
			updated_at = $15
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.Name,
		string(e.MealType),
		e.EatingTime,
		e.Description,
		e.VolumeMl,
		ingredientsOrEmpty(e.Ingredients),
		e.Totals.Calories,
		e.Totals.Protein,
		e.Totals.Fat,
		e.Totals.Carb,
		e.Totals.Fiber,
		e.NutritionScore,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Delete deletes an entry owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM food_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var mealType string
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&mealType,
		&e.EatingTime,
		&e.Description,
		&e.VolumeMl,
		&e.Ingredients,
		&e.Totals.Calories,
		&e.Totals.Protein,
		&e.Totals.Fat,
		&e.Totals.Carb,
		&e.Totals.Fiber,
		&e.NutritionScore,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.MealType = nutrition.MealType(mealType)
	return &e, nil
}

func ingredientsOrEmpty(ingredients []Ingredient) []Ingredient {
	if ingredients == nil {
		return []Ingredient{}
	}
	return ingredients
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
