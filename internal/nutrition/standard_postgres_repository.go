package nutrition

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStandardRepository reads the standard table from PostgreSQL.
type PostgresStandardRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStandardRepository creates a new PostgreSQL standard repository.
func NewPostgresStandardRepository(pool *pgxpool.Pool) *PostgresStandardRepository {
	return &PostgresStandardRepository{pool: pool}
}

const standardColumns = `
	meal_type, calorie_percentage,
	ratio_carb, ratio_protein, ratio_fat,
	max_calories, max_calories_per_100ml, description
`

// Get retrieves the standard for a meal type.
func (r *PostgresStandardRepository) Get(ctx context.Context, mealType MealType) (*MealTypeStandard, error) {
	query := `SELECT` + standardColumns + `FROM meal_type_standards WHERE meal_type = $1`

	std, err := scanStandard(r.pool.QueryRow(ctx, query, string(mealType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStandardNotFound
		}
		return nil, err
	}
	return std, nil
}

// List retrieves all standards.
func (r *PostgresStandardRepository) List(ctx context.Context) ([]*MealTypeStandard, error) {
	query := `SELECT` + standardColumns + `FROM meal_type_standards`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*MealTypeStandard
	for rows.Next() {
		std, err := scanStandard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, std)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortStandards(result)
	return result, nil
}

// Upsert creates or replaces a standard.
func (r *PostgresStandardRepository) Upsert(ctx context.Context, std *MealTypeStandard) error {
	query := `
		INSERT INTO meal_type_standards (
			meal_type, calorie_percentage,
			ratio_carb, ratio_protein, ratio_fat,
			max_calories, max_calories_per_100ml, description, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (meal_type) DO UPDATE SET
			calorie_percentage = EXCLUDED.calorie_percentage,
			ratio_carb = EXCLUDED.ratio_carb,
			ratio_protein = EXCLUDED.ratio_protein,
			ratio_fat = EXCLUDED.ratio_fat,
			max_calories = EXCLUDED.max_calories,
			max_calories_per_100ml = EXCLUDED.max_calories_per_100ml,
			description = EXCLUDED.description,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		string(std.MealType),
		std.CaloriePercentage,
		std.Ratio.Carb,
		std.Ratio.Protein,
		std.Ratio.Fat,
		std.MaxCalories,
		std.MaxCaloriesPer100ml,
		std.Description,
	)
	return err
}

func scanStandard(row pgx.Row) (*MealTypeStandard, error) {
	var (
		std      MealTypeStandard
		mealType string
	)
	err := row.Scan(
		&mealType,
		&std.CaloriePercentage,
		&std.Ratio.Carb,
		&std.Ratio.Protein,
		&std.Ratio.Fat,
		&std.MaxCalories,
		&std.MaxCaloriesPer100ml,
		&std.Description,
	)
	if err != nil {
		return nil, err
	}
	std.MealType = MealType(mealType)
	return &std, nil
}

var _ StandardRepository = (*PostgresStandardRepository)(nil)
