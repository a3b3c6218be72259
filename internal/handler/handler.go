package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"kleankart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("error_code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// respondError maps a domain error to its HTTP status and error code
// and writes the response. The whole error taxonomy funnels through
// here so every handler reports failures the same way.
func respondError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		domainErr   *model.DomainError
		lineErr     *model.InvalidLineItemError
		belowMin    *model.CouponBelowMinimumError
		mismatch    *model.PriceMismatchError
		transition  *model.InvalidStateTransitionError
		unavailable *model.GatewayUnavailableError
	)

	switch {
	case errors.As(err, &domainErr):
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
	case errors.As(err, &lineErr):
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidLineItem, lineErr.Error(), logger)
	case errors.As(err, &belowMin):
		writeError(w, http.StatusBadRequest, model.ErrCodeCouponBelowMinimum, belowMin.Error(), logger)
	case errors.As(err, &mismatch):
		writeError(w, http.StatusBadRequest, model.ErrCodePriceMismatch, mismatch.Error(), logger)
	case errors.As(err, &transition):
		writeError(w, http.StatusConflict, model.ErrCodeInvalidTransition, transition.Error(), logger)
	case errors.As(err, &unavailable):
		writeError(w, http.StatusBadGateway, model.ErrCodeGatewayUnavailable, unavailable.Error(), logger)
	default:
		logger.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
	}
}

// statusForCode maps DomainError codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeOrderNotFound, model.ErrCodeCouponNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidTransition:
		return http.StatusConflict
	case model.ErrCodeGatewayUnavailable:
		return http.StatusBadGateway
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
