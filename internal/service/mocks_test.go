package service

import (
	"context"
	"time"

	"kleankart/internal/coupon"
	"kleankart/internal/gateway"
	"kleankart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected, target model.OrderStatus) (bool, error) {
	args := m.Called(ctx, tx, id, expected, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) AttachReview(ctx context.Context, id uuid.UUID, rating int, review string) (bool, error) {
	args := m.Called(ctx, id, rating, review)
	return args.Bool(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of repository.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateSession(ctx context.Context, session *model.PaymentSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockPaymentRepository) ActiveSession(ctx context.Context, orderID uuid.UUID) (*model.PaymentSession, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentSession), args.Error(1)
}

func (m *MockPaymentRepository) FindVerification(ctx context.Context, orderID uuid.UUID, gatewayPaymentID string) (*model.PaymentVerification, error) {
	args := m.Called(ctx, orderID, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentVerification), args.Error(1)
}

func (m *MockPaymentRepository) CreateVerification(ctx context.Context, tx pgx.Tx, v *model.PaymentVerification) error {
	args := m.Called(ctx, tx, v)
	return args.Error(0)
}

func (m *MockPaymentRepository) RecordFailure(ctx context.Context, f *model.PaymentFailure) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

// MockCouponValidator is a mock implementation of coupon.Validator.
type MockCouponValidator struct {
	mock.Mock
}

func (m *MockCouponValidator) Validate(ctx context.Context, code string, subtotal model.Money, userID string) (model.Money, error) {
	args := m.Called(ctx, code, subtotal, userID)
	return args.Get(0).(model.Money), args.Error(1)
}

func (m *MockCouponValidator) Consume(ctx context.Context, tx pgx.Tx, code, userID string) error {
	args := m.Called(ctx, tx, code, userID)
	return args.Error(0)
}

var _ coupon.Validator = (*MockCouponValidator)(nil)

// MockGatewayClient is a mock implementation of gateway.Client.
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*gateway.Order, error) {
	args := m.Called(ctx, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

func (m *MockGatewayClient) KeyID() string {
	return "key_test"
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// pendingOrder builds a gateway-paid pending order for tests.
func pendingOrder(total model.Money) *model.Order {
	now := time.Now()
	return &model.Order{
		ID:            uuid.New(),
		UserID:        "user-1",
		Kind:          model.KindGeneric,
		Subtotal:      total,
		TotalAmount:   total,
		Currency:      "INR",
		PaymentMethod: model.PaymentMethodGateway,
		PaymentStatus: model.PaymentPending,
		OrderStatus:   model.StatusPending,
		ScheduledAt:   now.Add(24 * time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
