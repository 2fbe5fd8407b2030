package handler

import (
	"net/http"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders?status=&type=&limit=&offset=. Admins may
// also filter by userId; everyone else only sees their own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	q := r.URL.Query()
	filter := model.OrderFilter{
		Status:    model.OrderStatus(q.Get("status")),
		OrderType: model.OrderType(q.Get("type")),
		Limit:     limit,
		Offset:    offset,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		WriteError(w, r, model.NewValidationError(model.FieldError{Field: "status", Msg: "is not a known order status"}), h.logger)
		return
	}
	if filter.OrderType != "" && !filter.OrderType.Valid() {
		WriteError(w, r, model.NewValidationError(model.FieldError{Field: "type", Msg: "must be one of: product hotel"}), h.logger)
		return
	}
	if raw := q.Get("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, r, model.NewValidationError(model.FieldError{Field: "userId", Msg: "must be a valid UUID"}), h.logger)
			return
		}
		filter.UserID = &userID
	}

	page, err := h.service.List(r.Context(), auth.ViewerFrom(r.Context()), filter)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, page)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Get(r.Context(), auth.ViewerFrom(r.Context()), id)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var req model.UpdateOrderStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	h.logger.Info().Str("order_id", id.String()).Str("status", string(req.Status)).Msg("order status updated")
	writeData(w, http.StatusOK, order)
}

// UpdatePaymentStatus handles PATCH /api/orders/{id}/payment-status.
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var req model.UpdatePaymentStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.service.UpdatePaymentStatus(r.Context(), id, req.PaymentStatus)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Cancel(r.Context(), auth.ViewerFrom(r.Context()), id)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, order)
}
