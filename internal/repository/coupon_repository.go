package repository

import (
	"context"
	"fmt"

	"kleankart/internal/coupon"
	"kleankart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements coupon.Store using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon store.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) coupon.Store {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// FindByCode looks a coupon up by case-insensitive code.
func (r *couponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	query := `
		SELECT id, code, discount_type, discount_value, minimum_order_amount,
		       valid_from, valid_until, usage_limit, usage_count, per_user_limit
		FROM coupons
		WHERE lower(code) = lower($1)
	`

	var (
		c        coupon.Coupon
		minOrder int64
	)
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &minOrder,
		&c.ValidFrom, &c.ValidUntil, &c.UsageLimit, &c.UsageCount, &c.PerUserLimit,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	c.MinimumOrderAmount = model.Paise(minOrder)
	return &c, nil
}

// UserUsage returns how many times the user has redeemed the coupon.
func (r *couponRepository) UserUsage(ctx context.Context, couponID uuid.UUID, userID string) (int, error) {
	query := `
		SELECT COALESCE(uses, 0)
		FROM coupon_redemptions
		WHERE coupon_id = $1 AND user_id = $2
	`

	var uses int
	err := r.pool.QueryRow(ctx, query, couponID, userID).Scan(&uses)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to query coupon redemptions")
		return 0, fmt.Errorf("failed to query coupon redemptions: %w", err)
	}

	return uses, nil
}

// Consume redeems the coupon with conditional counter updates, never
// read-then-write: two concurrent confirmations cannot jointly exceed
// a limit.
func (r *couponRepository) Consume(ctx context.Context, tx pgx.Tx, c *coupon.Coupon, userID string) error {
	globalQuery := `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit = 0 OR usage_count < usage_limit)
	`

	tag, err := tx.Exec(ctx, globalQuery, c.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_code", c.Code).Msg("failed to increment coupon usage")
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponUsageExceeded
	}

	if c.PerUserLimit > 0 {
		userQuery := `
			INSERT INTO coupon_redemptions (coupon_id, user_id, uses)
			VALUES ($1, $2, 1)
			ON CONFLICT (coupon_id, user_id)
			DO UPDATE SET uses = coupon_redemptions.uses + 1
			WHERE coupon_redemptions.uses < $3
		`

		tag, err := tx.Exec(ctx, userQuery, c.ID, userID, c.PerUserLimit)
		if err != nil {
			r.logger.Error().Err(err).Str("coupon_code", c.Code).Str("user_id", userID).Msg("failed to record coupon redemption")
			return fmt.Errorf("failed to record coupon redemption: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// The transaction rolls back, so the global increment above
			// never lands.
			return model.ErrCouponUsageExceeded
		}
	}

	return nil
}
