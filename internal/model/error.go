package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeInvalidLineItem     = "INVALID_LINE_ITEM"
	ErrCodeCouponNotFound      = "COUPON_NOT_FOUND"
	ErrCodeCouponExpired       = "COUPON_EXPIRED"
	ErrCodeCouponBelowMinimum  = "COUPON_BELOW_MINIMUM"
	ErrCodeCouponUsageExceeded = "COUPON_USAGE_EXCEEDED"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodePriceMismatch       = "PRICE_MISMATCH"
	ErrCodeInvalidTransition   = "INVALID_STATE_TRANSITION"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeSignatureInvalid    = "SIGNATURE_INVALID"
	ErrCodeGatewayUnavailable  = "GATEWAY_UNAVAILABLE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-logic error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart must contain at least one item")
	ErrCouponNotFound      = NewDomainError(ErrCodeCouponNotFound, "Coupon code not found or not currently valid")
	ErrCouponExpired       = NewDomainError(ErrCodeCouponExpired, "Coupon code has expired")
	ErrCouponUsageExceeded = NewDomainError(ErrCodeCouponUsageExceeded, "Coupon usage limit has been reached")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidAmount       = NewDomainError(ErrCodeInvalidAmount, "Order total must be greater than zero")
	ErrSignatureInvalid    = NewDomainError(ErrCodeSignatureInvalid, "Payment signature verification failed")
)

// InvalidLineItemError reports a malformed cart entry by position.
type InvalidLineItemError struct {
	Index  int
	Reason string
}

func (e *InvalidLineItemError) Error() string {
	return fmt.Sprintf("invalid line item at index %d: %s", e.Index, e.Reason)
}

// CouponBelowMinimumError carries the shortfall so callers can message
// "add ₹X more to use this coupon".
type CouponBelowMinimumError struct {
	MinimumOrderAmount Money
	Shortfall          Money
}

func (e *CouponBelowMinimumError) Error() string {
	return fmt.Sprintf("order is %s short of the %s minimum for this coupon", e.Shortfall, e.MinimumOrderAmount)
}

// PriceMismatchError is returned when a client-asserted total disagrees
// with the server-recomputed one. The server figure always wins.
type PriceMismatchError struct {
	Expected Money
	Asserted Money
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("client-asserted total %s does not match server total %s", e.Asserted, e.Expected)
}

// InvalidStateTransitionError reports an illegal order status move.
type InvalidStateTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// GatewayUnavailableError wraps a transport or 5xx failure from the
// payment gateway. Session creation may be retried with backoff.
type GatewayUnavailableError struct {
	Cause error
}

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("payment gateway unavailable: %v", e.Cause)
}

func (e *GatewayUnavailableError) Unwrap() error {
	return e.Cause
}
