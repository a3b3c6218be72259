package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kleankart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, from, to time.Time) (*model.ReconciliationSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationSummary), args.Error(1)
}

func TestReportHandler_Summary(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Explicit window", func(t *testing.T) {
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
		summary := &model.ReconciliationSummary{
			From: from,
			To:   to,
			Rows: []model.StatusSummary{
				{OrderStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPaid, Orders: 12, TotalAmount: model.Rupees(14500)},
				{OrderStatus: model.StatusPending, PaymentStatus: model.PaymentPending, Orders: 3, TotalAmount: model.Rupees(2100)},
			},
		}
		mockSvc := new(MockReportService)
		mockSvc.On("Summary", mock.Anything, from, to).Return(summary, nil)

		h := NewReportHandler(mockSvc, logger)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/admin/orders/summary?from=2026-08-01T00:00:00Z&to=2026-08-28T00:00:00Z", nil)
		h.Summary(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.ReconciliationSummary
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got.Rows, 2)
		assert.Equal(t, 12, got.Rows[0].Orders)
		mockSvc.AssertExpectations(t)
	})

	t.Run("Defaults applied by service", func(t *testing.T) {
		mockSvc := new(MockReportService)
		mockSvc.On("Summary", mock.Anything, time.Time{}, time.Time{}).
			Return(&model.ReconciliationSummary{Rows: []model.StatusSummary{}}, nil)

		h := NewReportHandler(mockSvc, logger)
		w := httptest.NewRecorder()
		h.Summary(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/summary", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("Malformed timestamp", func(t *testing.T) {
		mockSvc := new(MockReportService)
		h := NewReportHandler(mockSvc, logger)
		w := httptest.NewRecorder()
		h.Summary(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/summary?from=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Inverted window", func(t *testing.T) {
		mockSvc := new(MockReportService)
		h := NewReportHandler(mockSvc, logger)
		w := httptest.NewRecorder()
		h.Summary(w, httptest.NewRequest(http.MethodGet,
			"/api/admin/orders/summary?from=2026-08-28T00:00:00Z&to=2026-08-01T00:00:00Z", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
