package repository

import (
	"context"
	"time"

	"kleankart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order and its line items within the
	// provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its line items. Returns (nil, nil)
	// when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// TransitionStatus moves the order's status with a compare-and-swap
	// on the expected current status. Returns false (without error) when
	// the precondition did not match the persisted row.
	TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected, target model.OrderStatus) (bool, error)

	// MarkPaid atomically sets payment_status=paid and
	// order_status=confirmed, conditional on the order still being
	// pending and unpaid. Returns false when the precondition failed.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)

	// AttachReview stores a rating/review, allowed only on completed
	// orders. Returns false when the order is not completed.
	AttachReview(ctx context.Context, id uuid.UUID, rating int, review string) (bool, error)
}

// PaymentRepository defines data access for payment sessions,
// verifications and failures.
type PaymentRepository interface {
	// CreateSession persists a new gateway payment session.
	CreateSession(ctx context.Context, session *model.PaymentSession) error

	// ActiveSession returns the most recent session for an order, or
	// (nil, nil) when none exists.
	ActiveSession(ctx context.Context, orderID uuid.UUID) (*model.PaymentSession, error)

	// FindVerification looks up an existing verification for the
	// (order, gateway payment) pair. Returns (nil, nil) when absent.
	FindVerification(ctx context.Context, orderID uuid.UUID, gatewayPaymentID string) (*model.PaymentVerification, error)

	// CreateVerification inserts a verification record within the
	// provided transaction.
	CreateVerification(ctx context.Context, tx pgx.Tx, v *model.PaymentVerification) error

	// RecordFailure stores a failed/abandoned payment attempt.
	RecordFailure(ctx context.Context, f *model.PaymentFailure) error
}

// ReportRepository provides read-only aggregation over orders for the
// admin reconciliation view.
type ReportRepository interface {
	// StatusSummary aggregates order counts and money totals grouped by
	// order and payment status within the given window.
	StatusSummary(ctx context.Context, from, to time.Time) ([]model.StatusSummary, error)
}
