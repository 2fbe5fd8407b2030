package router

import (
	"context"
	"net/http"
	"time"

	"staykart/internal/handler"
	"staykart/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served under /api.
type Handlers struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Address  *handler.AddressHandler
	Hotels   *handler.HotelHandler
	Content  *handler.ContentHandler
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	tokens middleware.TokenValidator,
	revoked middleware.RevocationChecker,
	db Pinger,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication, no envelope)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	user := func(f http.HandlerFunc) http.Handler { return middleware.RequireAuth(f) }
	admin := func(f http.HandlerFunc) http.Handler { return middleware.RequireAdmin(f) }

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("POST /api/auth/logout", user(h.Auth.Logout))
	mux.Handle("GET /api/auth/me", user(h.Auth.Me))

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Products.List)
	mux.HandleFunc("GET /api/products/{ref}", h.Products.Get)
	mux.Handle("POST /api/products", admin(h.Products.Create))
	mux.Handle("PUT /api/products/{id}", admin(h.Products.Update))
	mux.Handle("DELETE /api/products/{id}", admin(h.Products.Delete))
	mux.Handle("POST /api/products/{id}/variants", admin(h.Products.AddVariant))
	mux.Handle("POST /api/products/{id}/images", admin(h.Products.AddImage))

	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("GET /api/categories/{slug}", h.Category.Get)
	mux.Handle("POST /api/categories", admin(h.Category.Create))
	mux.Handle("PUT /api/categories/{id}", admin(h.Category.Update))
	mux.Handle("DELETE /api/categories/{id}", admin(h.Category.Delete))

	// Cart and checkout, for users and X-Session-ID guests
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.Cart.RemoveItem)
	mux.HandleFunc("GET /api/checkout/summary", h.Cart.Summary)
	mux.HandleFunc("POST /api/checkout", h.Cart.Checkout)

	// Orders
	mux.HandleFunc("GET /api/orders", h.Orders.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Orders.Get)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.Orders.Cancel)
	mux.Handle("PATCH /api/orders/{id}/status", admin(h.Orders.UpdateStatus))
	mux.Handle("PATCH /api/orders/{id}/payment-status", admin(h.Orders.UpdatePaymentStatus))

	// Address book
	mux.Handle("GET /api/addresses", user(h.Address.List))
	mux.Handle("POST /api/addresses", user(h.Address.Create))
	mux.Handle("PUT /api/addresses/{id}", user(h.Address.Update))
	mux.Handle("DELETE /api/addresses/{id}", user(h.Address.Delete))

	// Hotels and bookings
	mux.HandleFunc("GET /api/hotels", h.Hotels.List)
	mux.HandleFunc("GET /api/hotels/special-offers", h.Hotels.SpecialOffers)
	mux.HandleFunc("GET /api/hotels/popular", h.Hotels.Popular)
	mux.HandleFunc("GET /api/hotels/{slug}", h.Hotels.Get)
	mux.Handle("POST /api/hotels", admin(h.Hotels.Create))
	mux.Handle("PUT /api/hotels/{id}", admin(h.Hotels.Update))
	mux.Handle("DELETE /api/hotels/{id}", admin(h.Hotels.Delete))
	mux.HandleFunc("POST /api/bookings/quote", h.Hotels.Quote)
	mux.HandleFunc("POST /api/bookings", h.Hotels.Book)

	// Content
	mux.HandleFunc("GET /api/editorials", h.Content.ListEditorials)
	mux.HandleFunc("GET /api/editorials/{slug}", h.Content.GetEditorial)
	mux.Handle("POST /api/editorials", admin(h.Content.CreateEditorial))
	mux.Handle("PUT /api/editorials/{id}", admin(h.Content.UpdateEditorial))
	mux.Handle("POST /api/editorials/{id}/publish", admin(h.Content.PublishEditorial))
	mux.Handle("DELETE /api/editorials/{id}", admin(h.Content.DeleteEditorial))

	mux.HandleFunc("GET /api/galleries", h.Content.ListGalleries)
	mux.Handle("POST /api/galleries", admin(h.Content.CreateGallery))
	mux.Handle("DELETE /api/galleries/{id}", admin(h.Content.DeleteGallery))

	mux.HandleFunc("GET /api/settings", h.Content.ListSettings)
	mux.Handle("PUT /api/settings/{key}", admin(h.Content.PutSetting))
	mux.Handle("DELETE /api/settings/{key}", admin(h.Content.DeleteSetting))

	mux.HandleFunc("/api/", middleware.NotFound)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> Authenticate
	var handler http.Handler = mux
	handler = middleware.Authenticate(tokens, revoked, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
