package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentSession is a gateway-side transaction record the client
// completes payment against. One active session per unpaid order.
type PaymentSession struct {
	ID             uuid.UUID `json:"-"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	OrderID        uuid.UUID `json:"orderId"`
	Amount         Money     `json:"amount"`
	ClientKey      string    `json:"key"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PaymentVerification records one successful, signature-verified
// gateway callback. A failed verification never creates this record.
type PaymentVerification struct {
	ID               uuid.UUID `json:"-"`
	OrderID          uuid.UUID `json:"orderId"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	GatewayOrderID   string    `json:"gatewayOrderId"`
	SignatureValid   bool      `json:"signatureValid"`
	VerifiedAt       time.Time `json:"verifiedAt"`
}

// PaymentFailure stores a failed or abandoned payment attempt reported
// by the gateway. The order itself stays pending and re-payable.
type PaymentFailure struct {
	ID          uuid.UUID `json:"-"`
	OrderID     uuid.UUID `json:"orderId"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}
