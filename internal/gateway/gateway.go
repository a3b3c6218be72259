package gateway

import (
	"context"
	"time"

	"kleankart/internal/model"
)

// Order is a gateway-side payment order minted for one of our orders.
// The client completes payment against its ID.
type Order struct {
	ID       string      `json:"id"`
	Amount   model.Money `json:"amount"`
	Currency string      `json:"currency"`
	Receipt  string      `json:"receipt"`
}

// Client is the sole surface that talks to the external payment
// gateway. Session creation is retry-safe; nothing else here mutates
// local state.
type Client interface {
	// CreateOrder mints a gateway order for the given amount in minor
	// units. The receipt ties it back to our order id.
	CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*Order, error)

	// KeyID returns the public key id the browser checkout widget needs.
	KeyID() string
}

// Config holds the gateway credentials and endpoint.
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}
