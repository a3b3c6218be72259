package coupon

import (
	"context"
	"fmt"
	"time"

	"kleankart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// validator implements Validator against a coupon Store.
type validator struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewValidator creates a new coupon validator.
func NewValidator(store Store, logger zerolog.Logger) Validator {
	return &validator{
		store:  store,
		logger: logger.With().Str("component", "coupon-validator").Logger(),
		now:    time.Now,
	}
}

// Validate checks eligibility and computes the discount for a coupon
// code. It never mutates usage counters.
func (v *validator) Validate(ctx context.Context, code string, subtotal model.Money, userID string) (model.Money, error) {
	c, err := v.store.FindByCode(ctx, code)
	if err != nil {
		v.logger.Error().Err(err).Str("coupon_code", code).Msg("coupon lookup failed")
		return 0, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if c == nil {
		v.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
		return 0, model.ErrCouponNotFound
	}

	now := v.now()
	if now.Before(c.ValidFrom) {
		v.logger.Debug().Str("coupon_code", code).Time("valid_from", c.ValidFrom).Msg("coupon not yet valid")
		return 0, model.ErrCouponNotFound
	}
	if now.After(c.ValidUntil) {
		v.logger.Debug().Str("coupon_code", code).Time("valid_until", c.ValidUntil).Msg("coupon expired")
		return 0, model.ErrCouponExpired
	}

	if subtotal < c.MinimumOrderAmount {
		shortfall := c.MinimumOrderAmount - subtotal
		v.logger.Debug().
			Str("coupon_code", code).
			Stringer("subtotal", subtotal).
			Stringer("shortfall", shortfall).
			Msg("cart below coupon minimum")
		return 0, &model.CouponBelowMinimumError{
			MinimumOrderAmount: c.MinimumOrderAmount,
			Shortfall:          shortfall,
		}
	}

	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		v.logger.Debug().Str("coupon_code", code).Int("usage_count", c.UsageCount).Msg("coupon globally exhausted")
		return 0, model.ErrCouponUsageExceeded
	}

	if c.PerUserLimit > 0 {
		used, err := v.store.UserUsage(ctx, c.ID, userID)
		if err != nil {
			v.logger.Error().Err(err).Str("coupon_code", code).Str("user_id", userID).Msg("failed to read user usage")
			return 0, fmt.Errorf("failed to read coupon usage: %w", err)
		}
		if used >= c.PerUserLimit {
			v.logger.Debug().Str("coupon_code", code).Str("user_id", userID).Int("used", used).Msg("per-user limit reached")
			return 0, model.ErrCouponUsageExceeded
		}
	}

	discount := c.Discount(subtotal)
	v.logger.Debug().
		Str("coupon_code", code).
		Stringer("discount", discount).
		Msg("coupon validated")

	return discount, nil
}

// Consume looks the coupon up and redeems it through the store's
// conditional counter updates, inside the caller's transaction.
func (v *validator) Consume(ctx context.Context, tx pgx.Tx, code, userID string) error {
	c, err := v.store.FindByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to look up coupon: %w", err)
	}
	if c == nil {
		return model.ErrCouponNotFound
	}

	if err := v.store.Consume(ctx, tx, c, userID); err != nil {
		v.logger.Warn().Err(err).Str("coupon_code", code).Str("user_id", userID).Msg("coupon consumption rejected")
		return err
	}

	v.logger.Info().Str("coupon_code", code).Str("user_id", userID).Msg("coupon consumed")
	return nil
}

// Discount computes the discount this coupon yields for a subtotal,
// capped so it never exceeds the subtotal.
func (c *Coupon) Discount(subtotal model.Money) model.Money {
	var d model.Money
	switch c.DiscountType {
	case DiscountPercentage:
		d = subtotal.Percent(c.DiscountValue)
	case DiscountFixed:
		d = model.Paise(c.DiscountValue)
	}
	if d > subtotal {
		d = subtotal
	}
	return d
}
