package coupon

import (
	"context"
	"time"

	"kleankart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DiscountType selects how a coupon's value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code with its eligibility rules. Coupons are
// created by an external admin surface and are read-only here except
// for the usage counters.
type Coupon struct {
	ID                 uuid.UUID
	Code               string
	DiscountType       DiscountType
	// DiscountValue is whole percents for percentage coupons and paise
	// for fixed coupons.
	DiscountValue      int64
	MinimumOrderAmount model.Money
	ValidFrom          time.Time
	ValidUntil         time.Time
	// Zero limits mean unlimited.
	UsageLimit         int
	UsageCount         int
	PerUserLimit       int
}

// Store is the persistence surface the validator needs. The Postgres
// implementation lives in the repository package.
type Store interface {
	// FindByCode looks a coupon up by case-insensitive code. Returns
	// (nil, nil) when no such coupon exists.
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// UserUsage returns how many times the user has redeemed the coupon.
	UserUsage(ctx context.Context, couponID uuid.UUID, userID string) (int, error)

	// Consume atomically increments the global and per-user usage
	// counters within the given transaction. Both increments are
	// conditional on their limits; either failing returns
	// model.ErrCouponUsageExceeded without partial effect.
	Consume(ctx context.Context, tx pgx.Tx, c *Coupon, userID string) error
}

// Validator validates coupon codes against a cart subtotal and consumes
// them at order confirmation.
type Validator interface {
	// Validate returns the discount a coupon yields for the given
	// subtotal and user. Side-effect free: repeated preview calls never
	// touch the usage counters.
	Validate(ctx context.Context, code string, subtotal model.Money, userID string) (model.Money, error)

	// Consume redeems the coupon inside the caller's transaction. Called
	// exactly once per order, at confirmation time.
	Consume(ctx context.Context, tx pgx.Tx, code, userID string) error
}
