package handler

import (
	"encoding/json"
	"net/http"

	"kleankart/internal/model"
	"kleankart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles payment gateway session and callback requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// createSessionRequest asks for a gateway session for an order.
type createSessionRequest struct {
	OrderID uuid.UUID `json:"orderId"`
}

// CreateSession handles POST /api/payments/create-order requests.
func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.OrderID == uuid.Nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is required", h.logger)
		return
	}

	session, err := h.service.CreateSession(r.Context(), req.OrderID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// verifyResponse acknowledges a verified payment.
type verifyResponse struct {
	Success bool `json:"success"`
}

// Verify handles POST /api/payments/verify requests.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.OrderID == uuid.Nil || req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "orderId, gatewayOrderId, gatewayPaymentId and signature are required", h.logger)
		return
	}

	if _, err := h.service.Verify(r.Context(), &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Success: true})
}

// failureRequest reports a failed or abandoned gateway payment.
type failureRequest struct {
	OrderID     uuid.UUID `json:"orderId"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"`
}

// RecordFailure handles POST /api/payments/failure requests.
func (h *PaymentHandler) RecordFailure(w http.ResponseWriter, r *http.Request) {
	var req failureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.OrderID == uuid.Nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is required", h.logger)
		return
	}

	if err := h.service.RecordFailure(r.Context(), req.OrderID, req.Code, req.Description, req.Source); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"acknowledged": true})
}
