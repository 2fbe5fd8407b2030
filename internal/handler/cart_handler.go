package handler

import (
	"net/http"
	"strings"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart and checkout requests. The cart belongs to the
// signed-in user, or to the guest identified by X-Session-ID.
type CartHandler struct {
	carts    service.CartService
	checkout service.CheckoutService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, checkout service.CheckoutService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		checkout: checkout,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.ViewerFrom(r.Context()).CartOwner()
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.Get(r.Context(), owner)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.ViewerFrom(r.Context()).CartOwner()
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var req model.AddCartItemRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), owner, &req)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, cart)
}

// UpdateItem handles PUT /api/cart/items/{id}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.ViewerFrom(r.Context()).CartOwner()
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var req model.UpdateCartItemRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), owner, id, req.Quantity)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.ViewerFrom(r.Context()).CartOwner()
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), owner, id)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, cart)
}

// Summary handles GET /api/checkout/summary?promoCode=.
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.ViewerFrom(r.Context()).CartOwner()
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	var promo *string
	if code := strings.TrimSpace(r.URL.Query().Get("promoCode")); code != "" {
		promo = &code
	}

	summary, err := h.checkout.Summary(r.Context(), owner, promo)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, summary)
}

// Checkout handles POST /api/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), auth.ViewerFrom(r.Context()), &req)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, order)
}
