package router

import (
	"net/http"

	"kleankart/internal/handler"
	"kleankart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	couponHandler *handler.CouponHandler,
	paymentHandler *handler.PaymentHandler,
	reportHandler *handler.ReportHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/coupons/validate", couponHandler.Validate)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.GetByID)
			r.Patch("/{id}/cancel", orderHandler.Cancel)
			r.Patch("/{id}/status", orderHandler.Transition)
			r.Patch("/{id}/review", orderHandler.AttachReview)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-order", paymentHandler.CreateSession)
			r.Post("/verify", paymentHandler.Verify)
			r.Post("/failure", paymentHandler.RecordFailure)
		})

		r.Get("/admin/orders/summary", reportHandler.Summary)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> UserIdentity
	var h http.Handler = r
	h = middleware.UserIdentity(logger)(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
