package report

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// The report body is stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL report repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a stored daily report.
func (r *PostgresRepository) Get(ctx context.Context, userID, date string) (*DailyReport, error) {
	query := `
		SELECT body
		FROM daily_reports
		WHERE user_id = $1 AND report_date = $2::date
	`

	var rep DailyReport
	if err := r.pool.QueryRow(ctx, query, userID, date).Scan(&rep); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// Upsert overwrites a stored daily report.
func (r *PostgresRepository) Upsert(ctx context.Context, rep *DailyReport) error {
	query := `
		INSERT INTO daily_reports (user_id, report_date, body, generated_at)
		VALUES ($1, $2::date, $3, $4)
		ON CONFLICT (user_id, report_date) DO UPDATE SET
			body = EXCLUDED.body,
			generated_at = EXCLUDED.generated_at
	`

	_, err := r.pool.Exec(ctx, query, rep.UserID, rep.Date, rep, rep.GeneratedAt)
	return err
}

var _ Repository = (*PostgresRepository)(nil)
