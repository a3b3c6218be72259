package repository

import (
	"context"
	"fmt"
	"time"

	"kleankart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reportRepository implements ReportRepository using PostgreSQL.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

// StatusSummary aggregates order counts and totals per status bucket.
func (r *reportRepository) StatusSummary(ctx context.Context, from, to time.Time) ([]model.StatusSummary, error) {
	query := `
		SELECT order_status, payment_status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY order_status, payment_status
		ORDER BY order_status, payment_status
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query status summary")
		return nil, fmt.Errorf("failed to query status summary: %w", err)
	}
	defer rows.Close()

	var out []model.StatusSummary
	for rows.Next() {
		var (
			row   model.StatusSummary
			total int64
		)
		if err := rows.Scan(&row.OrderStatus, &row.PaymentStatus, &row.Orders, &total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		row.TotalAmount = model.Paise(total)
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	return out, nil
}
