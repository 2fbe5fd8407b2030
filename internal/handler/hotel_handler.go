package handler

import (
	"net/http"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

// HotelHandler handles hotel listings and stay bookings.
type HotelHandler struct {
	hotels   service.HotelService
	bookings service.BookingService
	logger   zerolog.Logger
}

// NewHotelHandler creates a new hotel handler.
func NewHotelHandler(hotels service.HotelService, bookings service.BookingService, logger zerolog.Logger) *HotelHandler {
	return &HotelHandler{
		hotels:   hotels,
		bookings: bookings,
		logger:   logger.With().Str("handler", "hotel").Logger(),
	}
}

// List handles GET /api/hotels.
func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.hotels.List(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, hotels)
}

// SpecialOffers handles GET /api/hotels/special-offers.
func (h *HotelHandler) SpecialOffers(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.hotels.SpecialOffers(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, hotels)
}

// Popular handles GET /api/hotels/popular?limit=.
func (h *HotelHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	hotels, err := h.hotels.Popular(r.Context(), auth.ViewerFrom(r.Context()), limit)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, hotels)
}

// Get handles GET /api/hotels/{slug}.
func (h *HotelHandler) Get(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.hotels.GetBySlug(r.Context(), auth.ViewerFrom(r.Context()), r.PathValue("slug"))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, hotel)
}

// Create handles POST /api/hotels.
func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.HotelInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	hotel, err := h.hotels.Create(r.Context(), &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, hotel)
}

// Update handles PUT /api/hotels/{id}.
func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.HotelInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	hotel, err := h.hotels.Update(r.Context(), id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, hotel)
}

// Delete handles DELETE /api/hotels/{id}.
func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	if err := h.hotels.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeNoContent(w)
}

// Quote handles POST /api/bookings/quote. Nothing is written.
func (h *HotelHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	quote, err := h.bookings.Quote(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, quote)
}

// Book handles POST /api/bookings and returns the created hotel order.
func (h *HotelHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.bookings.Book(r.Context(), auth.ViewerFrom(r.Context()), &req)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, order)
}
