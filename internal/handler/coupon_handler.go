package handler

import (
	"encoding/json"
	"net/http"

	"kleankart/internal/coupon"
	"kleankart/internal/middleware"
	"kleankart/internal/model"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon validation requests.
type CouponHandler struct {
	validator coupon.Validator
	logger    zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(validator coupon.Validator, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		validator: validator,
		logger:    logger.With().Str("handler", "coupon").Logger(),
	}
}

// validateRequest is the coupon preview payload.
type validateRequest struct {
	Code         string      `json:"code"`
	CartSubtotal model.Money `json:"cartSubtotal"`
}

// validateResponse reports the discount a coupon would yield.
type validateResponse struct {
	IsValid        bool        `json:"isValid"`
	DiscountAmount model.Money `json:"discountAmount"`
}

// Validate handles POST /api/coupons/validate requests. Preview only:
// the coupon is not consumed.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing user identity", h.logger)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "coupon code is required", h.logger)
		return
	}

	discount, err := h.validator.Validate(r.Context(), req.Code, req.CartSubtotal, userID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{IsValid: true, DiscountAmount: discount})
}
