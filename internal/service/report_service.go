package service

import (
	"context"
	"fmt"
	"time"

	"kleankart/internal/model"
	"kleankart/internal/repository"

	"github.com/rs/zerolog"
)

// reportService implements ReportService.
type reportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		logger:     logger.With().Str("service", "report").Logger(),
	}
}

// Summary aggregates orders by status within a window. A zero "to"
// defaults to now, a zero "from" to 30 days before "to".
func (s *reportService) Summary(ctx context.Context, from, to time.Time) (*model.ReconciliationSummary, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	rows, err := s.reportRepo.StatusSummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build reconciliation summary: %w", err)
	}

	return &model.ReconciliationSummary{From: from, To: to, Rows: rows}, nil
}
