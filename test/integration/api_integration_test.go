package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"kleankart/internal/coupon"
	"kleankart/internal/gateway"
	"kleankart/internal/handler"
	"kleankart/internal/model"
	"kleankart/internal/repository"
	"kleankart/internal/router"
	"kleankart/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey        = "integration-test-key"
	testGatewaySecret = "gw_secret_integration"
)

// fakeGateway is a stand-in for the payment gateway's order endpoint.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()

	var counter int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}

		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		n := atomic.AddInt64(&counter, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":       fmt.Sprintf("order_gw_%d", n),
			"amount":   req.Amount,
			"currency": req.Currency,
			"receipt":  req.Receipt,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// apiServer wires the full stack against the test database and a fake
// gateway, the same way cmd/api does.
func apiServer(t *testing.T, testDB *TestDB) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	gw := fakeGateway(t)

	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	couponStore := repository.NewCouponRepository(testDB.Pool, logger)
	paymentRepo := repository.NewPaymentRepository(testDB.Pool, logger)
	reportRepo := repository.NewReportRepository(testDB.Pool, logger)

	validator := coupon.NewValidator(couponStore, logger)
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:   gw.URL,
		KeyID:     "key_test",
		KeySecret: testGatewaySecret,
		Timeout:   5 * time.Second,
	}, logger)

	orderService := service.NewOrderService(orderRepo, validator, "INR", logger)
	paymentService := service.NewPaymentService(orderRepo, paymentRepo, validator, gatewayClient, testGatewaySecret, logger)
	reportService := service.NewReportService(reportRepo, logger)

	mux := router.New(
		handler.NewOrderHandler(orderService, logger),
		handler.NewCouponHandler(validator, logger),
		handler.NewPaymentHandler(paymentService, logger),
		handler.NewReportHandler(reportService, logger),
		testAPIKey,
		logger,
	)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues an authenticated request and decodes the JSON response
// into out when it is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, userID string, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func checkoutRequest(couponCode string, method model.PaymentMethod) map[string]any {
	req := map[string]any{
		"kind": "generic",
		"items": []map[string]any{
			{
				"referenceId": "svc-deep-clean",
				"title":       "3BHK deep clean",
				"unitPrice":   100000,
				"quantity":    1,
			},
		},
		"serviceAddress": map[string]any{
			"line1":   "12 MG Road",
			"city":    "Bengaluru",
			"pincode": "560001",
		},
		"scheduledAt":   time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"paymentMethod": string(method),
	}
	if couponCode != "" {
		req["couponCode"] = couponCode
	}
	return req
}

func TestAPI_AuthAndHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := apiServer(t, testDB)

	t.Run("Health needs no credentials", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing API key is rejected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/orders/summary", nil)
		req.Header.Set("X-User-ID", "admin-1")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Missing user identity is rejected", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPost, "/api/orders", checkoutRequest("", model.PaymentMethodCOD), "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestAPI_GatewayCheckoutFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := apiServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	SeedCoupon(t, testDB.Pool, "SAVE10", "percentage", 10, 50000, 0, 0)

	// Preview the coupon against the cart subtotal.
	var preview struct {
		IsValid        bool  `json:"isValid"`
		DiscountAmount int64 `json:"discountAmount"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/coupons/validate",
		map[string]any{"code": "SAVE10", "cartSubtotal": 100000}, "user-1", &preview)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, preview.IsValid)
	assert.Equal(t, int64(10000), preview.DiscountAmount)

	// Place the order.
	var order model.Order
	status = doJSON(t, srv, http.MethodPost, "/api/orders", checkoutRequest("SAVE10", model.PaymentMethodGateway), "user-1", &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, model.StatusPending, order.OrderStatus)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.Equal(t, model.Rupees(900), order.TotalAmount)

	// Mint a gateway session.
	var session struct {
		GatewayOrderID string `json:"gatewayOrderId"`
		Amount         int64  `json:"amount"`
		Key            string `json:"key"`
	}
	status = doJSON(t, srv, http.MethodPost, "/api/payments/create-order",
		map[string]any{"orderId": order.ID}, "user-1", &session)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, session.GatewayOrderID)
	assert.Equal(t, int64(90000), session.Amount)
	assert.Equal(t, "key_test", session.Key)

	// A tampered signature must not confirm the order.
	status = doJSON(t, srv, http.MethodPost, "/api/payments/verify", map[string]any{
		"orderId":          order.ID,
		"gatewayOrderId":   session.GatewayOrderID,
		"gatewayPaymentId": "pay_1",
		"signature":        "0000000000000000000000000000000000000000000000000000000000000000",
	}, "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// The genuine callback confirms it.
	verifyBody := map[string]any{
		"orderId":          order.ID,
		"gatewayOrderId":   session.GatewayOrderID,
		"gatewayPaymentId": "pay_1",
		"signature":        gateway.Signature(testGatewaySecret, session.GatewayOrderID, "pay_1"),
	}
	status = doJSON(t, srv, http.MethodPost, "/api/payments/verify", verifyBody, "user-1", nil)
	require.Equal(t, http.StatusOK, status)

	var confirmed model.Order
	status = doJSON(t, srv, http.MethodGet, "/api/orders/"+order.ID.String(), nil, "user-1", &confirmed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.StatusConfirmed, confirmed.OrderStatus)
	assert.Equal(t, model.PaymentPaid, confirmed.PaymentStatus)

	// A duplicate delivery of the same callback is a no-op success.
	status = doJSON(t, srv, http.MethodPost, "/api/payments/verify", verifyBody, "user-1", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_CODCheckoutAndLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := apiServer(t, testDB)
	CleanupDB(t, testDB.Pool)

	// COD orders confirm immediately.
	var order model.Order
	status := doJSON(t, srv, http.MethodPost, "/api/orders", checkoutRequest("", model.PaymentMethodCOD), "user-1", &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, model.StatusConfirmed, order.OrderStatus)

	// Walk the fulfilment states.
	for _, step := range []struct {
		expected model.OrderStatus
		target   model.OrderStatus
	}{
		{model.StatusConfirmed, model.StatusAssigned},
		{model.StatusAssigned, model.StatusInProgress},
		{model.StatusInProgress, model.StatusCompleted},
	} {
		var got model.Order
		status = doJSON(t, srv, http.MethodPatch, "/api/orders/"+order.ID.String()+"/status",
			map[string]any{"expected": step.expected, "target": step.target}, "staff-1", &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, step.target, got.OrderStatus)
	}

	// Completed orders cannot be cancelled.
	status = doJSON(t, srv, http.MethodPatch, "/api/orders/"+order.ID.String()+"/cancel", nil, "user-1", nil)
	assert.Equal(t, http.StatusConflict, status)

	// But they take a review.
	var reviewed model.Order
	status = doJSON(t, srv, http.MethodPatch, "/api/orders/"+order.ID.String()+"/review",
		map[string]any{"rating": 5, "review": "spotless"}, "user-1", &reviewed)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, reviewed.Rating)
	assert.Equal(t, 5, *reviewed.Rating)
}

func TestAPI_PriceMismatchRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := apiServer(t, testDB)
	CleanupDB(t, testDB.Pool)

	req := checkoutRequest("", model.PaymentMethodGateway)
	req["assertedTotal"] = 95000 // server computes 100000

	var resp model.ErrorResponse
	status := doJSON(t, srv, http.MethodPost, "/api/orders", req, "user-1", &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.ErrCodePriceMismatch, resp.Error)
}

func TestAPI_AdminSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	srv := apiServer(t, testDB)
	CleanupDB(t, testDB.Pool)

	status := doJSON(t, srv, http.MethodPost, "/api/orders", checkoutRequest("", model.PaymentMethodCOD), "user-1", nil)
	require.Equal(t, http.StatusCreated, status)

	var summary model.ReconciliationSummary
	status = doJSON(t, srv, http.MethodGet, "/api/admin/orders/summary", nil, "admin-1", &summary)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, model.StatusConfirmed, summary.Rows[0].OrderStatus)
	assert.Equal(t, 1, summary.Rows[0].Orders)
}
