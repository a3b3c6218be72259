package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"kleankart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// exec runs the statement on the transaction when one is supplied,
// falling back to the pool otherwise.
func exec(ctx context.Context, pool *pgxpool.Pool, tx pgx.Tx, query string, args ...any) (pgconn.CommandTag, error) {
	if tx != nil {
		return tx.Exec(ctx, query, args...)
	}
	return pool.Exec(ctx, query, args...)
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order and its line items within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	details, err := json.Marshal(order.Details)
	if err != nil {
		return fmt.Errorf("failed to encode booking details: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, user_id, kind, subtotal, discount_amount, coupon_code,
			total_amount, currency, address_line1, address_line2, city,
			state, pincode, landmark, scheduled_at, payment_method,
			payment_status, order_status, details, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err = tx.Exec(ctx, query,
		order.ID, order.UserID, order.Kind,
		int64(order.Subtotal), int64(order.DiscountAmount), order.CouponCode,
		int64(order.TotalAmount), order.Currency,
		order.ServiceAddress.Line1, order.ServiceAddress.Line2, order.ServiceAddress.City,
		order.ServiceAddress.State, order.ServiceAddress.Pincode, order.ServiceAddress.Landmark,
		order.ScheduledAt, order.PaymentMethod,
		order.PaymentStatus, order.OrderStatus, details,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := r.createLineItems(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return nil
}

// createLineItems batch-inserts the order's line items.
func (r *orderRepository) createLineItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, items []model.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, position, reference_id, kind, title, unit_price, quantity, add_ons, sub_line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		addOns, err := json.Marshal(item.AddOns)
		if err != nil {
			return fmt.Errorf("failed to encode add-ons: %w", err)
		}
		batch.Queue(query, uuid.New(), orderID, i, item.ReferenceID, item.Kind,
			item.Title, int64(item.UnitPrice), item.Quantity, addOns, int64(item.SubLineTotal))
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", orderID.String()).
				Str("reference_id", items[i].ReferenceID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order by its ID along with its line items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := `
		SELECT id, user_id, kind, subtotal, discount_amount, coupon_code,
		       total_amount, currency, address_line1, address_line2, city,
		       state, pincode, landmark, scheduled_at, payment_method,
		       payment_status, order_status, details, rating, review,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		order                     model.Order
		subtotal, discount, total int64
		details                   []byte
	)
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.UserID, &order.Kind,
		&subtotal, &discount, &order.CouponCode,
		&total, &order.Currency,
		&order.ServiceAddress.Line1, &order.ServiceAddress.Line2, &order.ServiceAddress.City,
		&order.ServiceAddress.State, &order.ServiceAddress.Pincode, &order.ServiceAddress.Landmark,
		&order.ScheduledAt, &order.PaymentMethod,
		&order.PaymentStatus, &order.OrderStatus, &details,
		&order.Rating, &order.Review,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	order.Subtotal = model.Paise(subtotal)
	order.DiscountAmount = model.Paise(discount)
	order.TotalAmount = model.Paise(total)

	if len(details) > 0 {
		if err := json.Unmarshal(details, &order.Details); err != nil {
			return nil, fmt.Errorf("failed to decode booking details: %w", err)
		}
	}

	itemsQuery := `
		SELECT reference_id, kind, title, unit_price, quantity, add_ons, sub_line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                 model.LineItem
			unitPrice, lineTotal int64
			addOns               []byte
		)
		if err := rows.Scan(&item.ReferenceID, &item.Kind, &item.Title, &unitPrice, &item.Quantity, &addOns, &lineTotal); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.UnitPrice = model.Paise(unitPrice)
		item.SubLineTotal = model.Paise(lineTotal)
		if len(addOns) > 0 {
			if err := json.Unmarshal(addOns, &item.AddOns); err != nil {
				return nil, fmt.Errorf("failed to decode add-ons: %w", err)
			}
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, nil
}

// TransitionStatus moves order_status with a compare-and-swap on the
// expected current status. Zero rows affected means the precondition
// did not hold.
func (r *orderRepository) TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected, target model.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET order_status = $1, updated_at = now()
		WHERE id = $2 AND order_status = $3
	`

	tag, err := exec(ctx, r.pool, tx, query, target, id, expected)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("expected", string(expected)).
			Str("target", string(target)).
			Msg("failed to transition order status")
		return false, fmt.Errorf("failed to transition order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkPaid flips the order to paid/confirmed, conditional on it still
// being pending and unpaid.
func (r *orderRepository) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET payment_status = 'paid', order_status = 'confirmed', updated_at = now()
		WHERE id = $1 AND order_status = 'pending' AND payment_status = 'pending'
	`

	tag, err := exec(ctx, r.pool, tx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// AttachReview stores a rating/review on a completed order.
func (r *orderRepository) AttachReview(ctx context.Context, id uuid.UUID, rating int, review string) (bool, error) {
	query := `
		UPDATE orders
		SET rating = $1, review = $2, updated_at = now()
		WHERE id = $3 AND order_status = 'completed'
	`

	tag, err := r.pool.Exec(ctx, query, rating, review, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to attach review")
		return false, fmt.Errorf("failed to attach review: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
