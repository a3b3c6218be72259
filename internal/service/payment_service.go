package service

import (
	"context"
	"fmt"
	"time"

	"kleankart/internal/coupon"
	"kleankart/internal/gateway"
	"kleankart/internal/model"
	"kleankart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService. It is the only component
// that talks to the external payment gateway.
type paymentService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	validator   coupon.Validator
	client      gateway.Client
	secret      string
	logger      zerolog.Logger
}

// NewPaymentService creates a new payment service. The secret is the
// gateway key secret used for callback signature verification.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	validator coupon.Validator,
	client gateway.Client,
	secret string,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		validator:   validator,
		client:      client,
		secret:      secret,
		logger:      logger.With().Str("service", "payment").Logger(),
	}
}

// CreateSession mints a gateway payment session for an unpaid order.
// An existing session for the same amount is reused so an abandoned
// checkout can be resumed without a duplicate gateway order.
func (s *paymentService) CreateSession(ctx context.Context, orderID uuid.UUID) (*model.PaymentSession, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.PaymentStatus != model.PaymentPending || order.OrderStatus != model.StatusPending {
		return nil, &model.InvalidStateTransitionError{From: order.OrderStatus, To: model.StatusConfirmed}
	}

	if !order.TotalAmount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	existing, err := s.paymentRepo.ActiveSession(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Amount == order.TotalAmount {
		s.logger.Debug().
			Str("order_id", orderID.String()).
			Str("gateway_order_id", existing.GatewayOrderID).
			Msg("reusing existing payment session")
		return existing, nil
	}

	gwOrder, err := s.client.CreateOrder(ctx, order.TotalAmount, order.Currency, order.ID.String())
	if err != nil {
		return nil, err
	}

	session := &model.PaymentSession{
		ID:             uuid.New(),
		GatewayOrderID: gwOrder.ID,
		OrderID:        orderID,
		Amount:         order.TotalAmount,
		ClientKey:      s.client.KeyID(),
		CreatedAt:      time.Now(),
	}

	if err := s.paymentRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("gateway_order_id", session.GatewayOrderID).
		Stringer("amount", session.Amount).
		Msg("payment session created")

	return session, nil
}

// Verify checks the callback signature and, on success, atomically
// records the verification, confirms the order and consumes its
// coupon. Duplicate deliveries of the same payload are no-op successes.
func (s *paymentService) Verify(ctx context.Context, req *VerifyRequest) (*model.PaymentVerification, error) {
	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	// Duplicate webhook delivery: an existing verification for this
	// (order, payment) pair means the work is already done.
	existing, err := s.paymentRepo.FindVerification(ctx, req.OrderID, req.GatewayPaymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info().
			Str("order_id", req.OrderID.String()).
			Str("gateway_payment_id", req.GatewayPaymentID).
			Msg("duplicate verification delivery ignored")
		return existing, nil
	}

	session, err := s.paymentRepo.ActiveSession(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.GatewayOrderID != req.GatewayOrderID {
		s.logger.Warn().
			Str("order_id", req.OrderID.String()).
			Str("gateway_order_id", req.GatewayOrderID).
			Msg("callback does not match the order's payment session")
		return nil, model.ErrSignatureInvalid
	}

	if !gateway.VerifySignature(s.secret, req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		s.logger.Warn().
			Str("order_id", req.OrderID.String()).
			Str("gateway_payment_id", req.GatewayPaymentID).
			Msg("payment signature mismatch")
		return nil, model.ErrSignatureInvalid
	}

	verification := &model.PaymentVerification{
		ID:               uuid.New(),
		OrderID:          req.OrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		GatewayOrderID:   req.GatewayOrderID,
		SignatureValid:   true,
		VerifiedAt:       time.Now(),
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.paymentRepo.CreateVerification(ctx, tx, verification); err != nil {
		return nil, err
	}

	var moved bool
	moved, err = s.orderRepo.MarkPaid(ctx, tx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !moved {
		// A different payment already confirmed this order.
		err = &model.InvalidStateTransitionError{From: order.OrderStatus, To: model.StatusConfirmed}
		return nil, err
	}

	if order.CouponCode != nil && *order.CouponCode != "" {
		if err = s.validator.Consume(ctx, tx, *order.CouponCode, order.UserID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	s.logger.Info().
		Str("order_id", req.OrderID.String()).
		Str("gateway_payment_id", req.GatewayPaymentID).
		Msg("payment verified, order confirmed")

	return verification, nil
}

// RecordFailure stores a failed or abandoned payment attempt. The order
// keeps its current status and stays re-payable.
func (s *paymentService) RecordFailure(ctx context.Context, orderID uuid.UUID, code, description, source string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	return s.paymentRepo.RecordFailure(ctx, &model.PaymentFailure{
		ID:          uuid.New(),
		OrderID:     orderID,
		Code:        code,
		Description: description,
		Source:      source,
		RecordedAt:  time.Now(),
	})
}
