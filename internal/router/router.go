package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	notificationHandler *handler.NotificationHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product list window and details
	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("POST /api/products/search", productHandler.Search)
	mux.HandleFunc("POST /api/products/more", productHandler.LoadMore)
	mux.HandleFunc("POST /api/products/visible", productHandler.Visible)
	mux.HandleFunc("POST /api/products/refetch", productHandler.Refetch)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)

	// Cart
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart", cartHandler.Add)
	mux.HandleFunc("DELETE /api/cart", cartHandler.Clear)
	mux.HandleFunc("DELETE /api/cart/last-added", cartHandler.DismissLastAdded)
	mux.HandleFunc("PUT /api/cart/{id}", cartHandler.Update)
	mux.HandleFunc("DELETE /api/cart/{id}", cartHandler.Remove)

	mux.HandleFunc("POST /api/checkout", checkoutHandler.Submit)

	mux.HandleFunc("GET /api/notifications", notificationHandler.List)
	mux.HandleFunc("DELETE /api/notifications/{id}", notificationHandler.Remove)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
