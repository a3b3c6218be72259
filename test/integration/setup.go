package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			kind VARCHAR(30) NOT NULL,
			subtotal BIGINT NOT NULL,
			discount_amount BIGINT NOT NULL DEFAULT 0,
			coupon_code VARCHAR(50),
			total_amount BIGINT NOT NULL,
			currency CHAR(3) NOT NULL,
			address_line1 VARCHAR(255) NOT NULL,
			address_line2 VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL,
			state VARCHAR(100) NOT NULL DEFAULT '',
			pincode VARCHAR(10) NOT NULL,
			landmark VARCHAR(255) NOT NULL DEFAULT '',
			scheduled_at TIMESTAMPTZ NOT NULL,
			payment_method VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			order_status VARCHAR(20) NOT NULL,
			details JSONB,
			rating INTEGER,
			review TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			reference_id VARCHAR(100) NOT NULL,
			kind VARCHAR(30) NOT NULL,
			title VARCHAR(255) NOT NULL,
			unit_price BIGINT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			add_ons JSONB,
			sub_line_total BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			discount_type VARCHAR(20) NOT NULL,
			discount_value BIGINT NOT NULL,
			minimum_order_amount BIGINT NOT NULL DEFAULT 0,
			valid_from TIMESTAMPTZ NOT NULL,
			valid_until TIMESTAMPTZ NOT NULL,
			usage_limit INTEGER NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			per_user_limit INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS coupon_redemptions (
			coupon_id UUID NOT NULL REFERENCES coupons(id) ON DELETE CASCADE,
			user_id VARCHAR(100) NOT NULL,
			uses INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (coupon_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS payment_sessions (
			id UUID PRIMARY KEY,
			gateway_order_id VARCHAR(100) NOT NULL,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			client_key VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS payment_verifications (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			gateway_payment_id VARCHAR(100) NOT NULL,
			gateway_order_id VARCHAR(100) NOT NULL,
			signature_valid BOOLEAN NOT NULL,
			verified_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS payment_failures (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			code VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			source VARCHAR(50) NOT NULL DEFAULT '',
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_payment_sessions_order_id ON payment_sessions(order_id);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_verifications_order_payment
			ON payment_verifications(order_id, gateway_payment_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCoupon inserts a coupon row for testing.
func SeedCoupon(t *testing.T, pool *pgxpool.Pool, code, discountType string, value, minimum int64, usageLimit, perUserLimit int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	now := time.Now()

	_, err := pool.Exec(ctx, `
		INSERT INTO coupons (id, code, discount_type, discount_value, minimum_order_amount,
		                     valid_from, valid_until, usage_limit, usage_count, per_user_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)`,
		id, code, discountType, value, minimum,
		now.Add(-time.Hour), now.Add(24*time.Hour), usageLimit, perUserLimit,
	)
	if err != nil {
		t.Fatalf("failed to seed coupon %s: %v", code, err)
	}

	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"payment_failures", "payment_verifications", "payment_sessions",
		"order_items", "orders", "coupon_redemptions", "coupons",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
