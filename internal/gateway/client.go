package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kleankart/internal/model"

	"github.com/rs/zerolog"
)

// httpClient implements Client over the gateway's REST API.
type httpClient struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a payment gateway client with a bounded timeout.
func NewClient(cfg Config, logger zerolog.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "gateway-client").Logger(),
	}
}

// createOrderRequest is the gateway's order creation payload. Amount is
// in minor currency units, which is also the gateway's convention.
type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder mints a gateway-side order. Network failures and gateway
// 5xx responses surface as GatewayUnavailableError so the caller can
// retry with backoff; 4xx responses are terminal.
func (c *httpClient) CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*Order, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(amount),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("receipt", receipt).Msg("gateway request failed")
		return nil, &model.GatewayUnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Error().Int("status", resp.StatusCode).Str("receipt", receipt).Msg("gateway returned server error")
		return nil, &model.GatewayUnavailableError{Cause: fmt.Errorf("gateway responded with status %d", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Str("receipt", receipt).
			Msg("gateway rejected order creation")
		return nil, fmt.Errorf("gateway rejected order creation with status %d", resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.logger.Info().
		Str("gateway_order_id", out.ID).
		Str("receipt", receipt).
		Int64("amount", out.Amount).
		Msg("gateway order created")

	return &Order{
		ID:       out.ID,
		Amount:   model.Paise(out.Amount),
		Currency: out.Currency,
		Receipt:  out.Receipt,
	}, nil
}

// KeyID returns the public key id for the checkout widget.
func (c *httpClient) KeyID() string {
	return c.cfg.KeyID
}
