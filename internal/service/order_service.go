package service

import (
	"context"
	"fmt"
	"time"

	"kleankart/internal/cart"
	"kleankart/internal/coupon"
	"kleankart/internal/model"
	"kleankart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	validator coupon.Validator
	currency  string
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	validator coupon.Validator,
	currency string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		validator: validator,
		currency:  currency,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Compose recomputes the cart server-side, applies an optional coupon
// and persists a pending order. Client-asserted totals are checked,
// never trusted.
func (s *orderService) Compose(ctx context.Context, userID string, req *model.OrderRequest) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	aggregated, err := cart.Aggregate(req.Items)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart aggregation failed")
		return nil, err
	}

	var discount model.Money
	if req.CouponCode != nil && *req.CouponCode != "" {
		discount, err = s.validator.Validate(ctx, *req.CouponCode, aggregated.Subtotal, userID)
		if err != nil {
			s.logger.Warn().
				Str("coupon_code", *req.CouponCode).
				Err(err).
				Msg("coupon rejected at checkout")
			return nil, err
		}
	}

	total := aggregated.Subtotal.Sub(discount)

	// Integer minor units leave no room for rounding drift: any
	// disagreement with the client's arithmetic is a hard reject.
	if req.AssertedTotal != nil && *req.AssertedTotal != total {
		s.logger.Warn().
			Str("user_id", userID).
			Stringer("server_total", total).
			Stringer("asserted_total", *req.AssertedTotal).
			Msg("client total mismatch")
		return nil, &model.PriceMismatchError{Expected: total, Asserted: *req.AssertedTotal}
	}

	now := time.Now()
	kind := req.Kind
	if kind == "" {
		kind = model.KindGeneric
	}

	order := &model.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Kind:           kind,
		Items:          aggregated.Items,
		Subtotal:       aggregated.Subtotal,
		DiscountAmount: discount,
		CouponCode:     req.CouponCode,
		TotalAmount:    total,
		Currency:       s.currency,
		ServiceAddress: req.ServiceAddress,
		ScheduledAt:    req.ScheduledAt,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  model.PaymentPending,
		OrderStatus:    model.StatusPending,
		Details:        req.Details,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// COD bypasses the gateway: the order confirms immediately and the
	// coupon is consumed here rather than at payment verification.
	if req.PaymentMethod == model.PaymentMethodCOD {
		if order.CouponCode != nil && *order.CouponCode != "" {
			if err = s.validator.Consume(ctx, tx, *order.CouponCode, userID); err != nil {
				return nil, err
			}
		}

		var moved bool
		moved, err = s.orderRepo.TransitionStatus(ctx, tx, order.ID, model.StatusPending, model.StatusConfirmed)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm COD order: %w", err)
		}
		if !moved {
			err = &model.InvalidStateTransitionError{From: order.OrderStatus, To: model.StatusConfirmed}
			return nil, err
		}
		order.OrderStatus = model.StatusConfirmed
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Str("kind", string(order.Kind)).
		Stringer("total", order.TotalAmount).
		Int("item_count", len(order.Items)).
		Msg("order created")

	return order, nil
}

// GetByID retrieves an order by its ID.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// staffTargets are the transitions staff workflows may request. The
// pending→confirmed edge belongs to payment verification and COD, and
// cancellation has its own operation.
var staffTargets = map[model.OrderStatus]bool{
	model.StatusAssigned:   true,
	model.StatusInProgress: true,
	model.StatusCompleted:  true,
}

// Transition performs one staff-driven status move.
func (s *orderService) Transition(ctx context.Context, id uuid.UUID, req *model.TransitionRequest) (*model.Order, error) {
	if !staffTargets[req.Target] {
		return nil, &model.InvalidStateTransitionError{From: req.Expected, To: req.Target}
	}
	if !model.CanTransition(req.Expected, req.Target) {
		return nil, &model.InvalidStateTransitionError{From: req.Expected, To: req.Target}
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	moved, err := s.orderRepo.TransitionStatus(ctx, nil, id, req.Expected, req.Target)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Precondition lost a race or the caller's view is stale; report
		// the current persisted state rather than overwriting it.
		current, getErr := s.orderRepo.GetByID(ctx, id)
		if getErr == nil && current != nil {
			order = current
		}
		return nil, &model.InvalidStateTransitionError{From: order.OrderStatus, To: req.Target}
	}

	order.OrderStatus = req.Target
	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(req.Expected)).
		Str("to", string(req.Target)).
		Msg("order status transitioned")

	return order, nil
}

// Cancel cancels an order. Legal only from pending or confirmed.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !model.CanTransition(order.OrderStatus, model.StatusCancelled) {
		return nil, &model.InvalidStateTransitionError{From: order.OrderStatus, To: model.StatusCancelled}
	}

	moved, err := s.orderRepo.TransitionStatus(ctx, nil, id, order.OrderStatus, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !moved {
		current, getErr := s.orderRepo.GetByID(ctx, id)
		if getErr == nil && current != nil {
			order = current
		}
		return nil, &model.InvalidStateTransitionError{From: order.OrderStatus, To: model.StatusCancelled}
	}

	order.OrderStatus = model.StatusCancelled
	s.logger.Info().Str("order_id", id.String()).Msg("order cancelled")

	return order, nil
}

// AttachReview stores a rating/review on a completed order.
func (s *orderService) AttachReview(ctx context.Context, id uuid.UUID, req *model.ReviewRequest) (*model.Order, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Rating must be between 1 and 5")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	ok, err := s.orderRepo.AttachReview(ctx, id, req.Rating, req.Review)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &model.InvalidStateTransitionError{From: order.OrderStatus, To: model.StatusCompleted}
	}

	order.Rating = &req.Rating
	if req.Review != "" {
		order.Review = &req.Review
	}

	return order, nil
}

// validateOrderRequest checks the checkout payload's shape, including
// the kind-specific booking details.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Order request is required")
	}

	if req.Kind != "" && !req.Kind.Valid() {
		return model.NewDomainError(model.ErrCodeMissingField, "Unknown booking kind: "+string(req.Kind))
	}

	switch req.PaymentMethod {
	case model.PaymentMethodGateway, model.PaymentMethodCOD:
	case "":
		req.PaymentMethod = model.PaymentMethodGateway
	default:
		return model.NewDomainError(model.ErrCodeMissingField, "Unknown payment method: "+string(req.PaymentMethod))
	}

	if req.ServiceAddress.Line1 == "" || req.ServiceAddress.City == "" || req.ServiceAddress.Pincode == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Service address requires line1, city and pincode")
	}

	if req.ScheduledAt.IsZero() {
		return model.NewDomainError(model.ErrCodeMissingField, "Scheduled time is required")
	}

	switch req.Kind {
	case model.KindVehicleCheckup:
		if req.Details.VehicleRegistration == "" {
			return model.NewDomainError(model.ErrCodeMissingField, "Vehicle registration is required for a checkup booking")
		}
	case model.KindKeyService:
		if req.Details.KeyCount < 1 {
			return model.NewDomainError(model.ErrCodeMissingField, "Key count must be at least 1 for a key service booking")
		}
	case model.KindPainting:
		if req.Details.SurfaceType == "" {
			return model.NewDomainError(model.ErrCodeMissingField, "Surface type is required for a painting booking")
		}
	}

	return nil
}
