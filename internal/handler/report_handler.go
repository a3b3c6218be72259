package handler

import (
	"net/http"
	"time"

	"kleankart/internal/model"
	"kleankart/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler serves admin reconciliation reports.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// Summary handles GET /api/admin/orders/summary requests. Optional
// "from" and "to" query parameters are RFC 3339 timestamps.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid 'from' timestamp, expected RFC 3339", h.logger)
			return
		}
		from = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid 'to' timestamp, expected RFC 3339", h.logger)
			return
		}
		to = t
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "'to' must not be before 'from'", h.logger)
		return
	}

	summary, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
