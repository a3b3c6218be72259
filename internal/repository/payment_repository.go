package repository

import (
	"context"
	"fmt"
	"time"

	"kleankart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// paymentRepository implements PaymentRepository using PostgreSQL.
type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// CreateSession persists a new gateway payment session.
func (r *paymentRepository) CreateSession(ctx context.Context, session *model.PaymentSession) error {
	query := `
		INSERT INTO payment_sessions (id, gateway_order_id, order_id, amount, client_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID, session.GatewayOrderID, session.OrderID,
		int64(session.Amount), session.ClientKey, session.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", session.OrderID.String()).
			Str("gateway_order_id", session.GatewayOrderID).
			Msg("failed to create payment session")
		return fmt.Errorf("failed to create payment session: %w", err)
	}

	return nil
}

// ActiveSession returns the most recent session for an order.
func (r *paymentRepository) ActiveSession(ctx context.Context, orderID uuid.UUID) (*model.PaymentSession, error) {
	query := `
		SELECT id, gateway_order_id, order_id, amount, client_key, created_at
		FROM payment_sessions
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		s      model.PaymentSession
		amount int64
	)
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&s.ID, &s.GatewayOrderID, &s.OrderID, &amount, &s.ClientKey, &s.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query payment session")
		return nil, fmt.Errorf("failed to query payment session: %w", err)
	}

	s.Amount = model.Paise(amount)
	return &s, nil
}

// FindVerification looks up a verification for the (order, gateway
// payment) pair. Duplicate webhook deliveries hit this before anything
// else.
func (r *paymentRepository) FindVerification(ctx context.Context, orderID uuid.UUID, gatewayPaymentID string) (*model.PaymentVerification, error) {
	query := `
		SELECT id, order_id, gateway_payment_id, gateway_order_id, signature_valid, verified_at
		FROM payment_verifications
		WHERE order_id = $1 AND gateway_payment_id = $2
	`

	var v model.PaymentVerification
	err := r.pool.QueryRow(ctx, query, orderID, gatewayPaymentID).Scan(
		&v.ID, &v.OrderID, &v.GatewayPaymentID, &v.GatewayOrderID, &v.SignatureValid, &v.VerifiedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query payment verification")
		return nil, fmt.Errorf("failed to query payment verification: %w", err)
	}

	return &v, nil
}

// CreateVerification inserts a verification record within the provided
// transaction. The unique (order_id, gateway_payment_id) index keeps
// racing duplicate deliveries from both inserting.
func (r *paymentRepository) CreateVerification(ctx context.Context, tx pgx.Tx, v *model.PaymentVerification) error {
	query := `
		INSERT INTO payment_verifications (id, order_id, gateway_payment_id, gateway_order_id, signature_valid, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query, v.ID, v.OrderID, v.GatewayPaymentID, v.GatewayOrderID, v.SignatureValid, v.VerifiedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", v.OrderID.String()).
			Str("gateway_payment_id", v.GatewayPaymentID).
			Msg("failed to create payment verification")
		return fmt.Errorf("failed to create payment verification: %w", err)
	}

	return nil
}

// RecordFailure stores a failed/abandoned payment attempt.
func (r *paymentRepository) RecordFailure(ctx context.Context, f *model.PaymentFailure) error {
	query := `
		INSERT INTO payment_failures (id, order_id, code, description, source, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.RecordedAt.IsZero() {
		f.RecordedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query, f.ID, f.OrderID, f.Code, f.Description, f.Source, f.RecordedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", f.OrderID.String()).Msg("failed to record payment failure")
		return fmt.Errorf("failed to record payment failure: %w", err)
	}

	r.logger.Info().
		Str("order_id", f.OrderID.String()).
		Str("code", f.Code).
		Msg("payment failure recorded")

	return nil
}
