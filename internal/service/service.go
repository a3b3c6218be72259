package service

import (
	"context"
	"time"

	"kleankart/internal/model"

	"github.com/google/uuid"
)

// OrderService defines checkout and order life-cycle operations.
type OrderService interface {
	// Compose recomputes the cart server-side, applies an optional
	// coupon, and persists a pending order.
	Compose(ctx context.Context, userID string, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// Transition performs one staff-driven status move with a
	// compare-and-swap precondition on the expected current status.
	Transition(ctx context.Context, id uuid.UUID, req *model.TransitionRequest) (*model.Order, error)

	// Cancel cancels an order, legal only from pending or confirmed.
	Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// AttachReview stores a rating/review on a completed order.
	AttachReview(ctx context.Context, id uuid.UUID, req *model.ReviewRequest) (*model.Order, error)
}

// PaymentService defines the payment-gateway-facing operations.
type PaymentService interface {
	// CreateSession mints (or reuses) a gateway payment session for an
	// unpaid order.
	CreateSession(ctx context.Context, orderID uuid.UUID) (*model.PaymentSession, error)

	// Verify checks a gateway callback signature and, on success,
	// confirms the order. Idempotent under duplicate delivery.
	Verify(ctx context.Context, req *VerifyRequest) (*model.PaymentVerification, error)

	// RecordFailure stores a failed/abandoned payment reported by the
	// gateway without touching the order's status.
	RecordFailure(ctx context.Context, orderID uuid.UUID, code, description, source string) error
}

// VerifyRequest carries a gateway payment callback.
type VerifyRequest struct {
	OrderID          uuid.UUID `json:"orderId"`
	GatewayOrderID   string    `json:"gatewayOrderId"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Signature        string    `json:"signature"`
}

// ReportService provides the read-only admin reconciliation view.
type ReportService interface {
	// Summary aggregates orders by status within a window.
	Summary(ctx context.Context, from, to time.Time) (*model.ReconciliationSummary, error)
}
