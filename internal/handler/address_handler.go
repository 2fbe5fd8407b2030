package handler

import (
	"net/http"

	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

// AddressHandler serves the signed-in user's address book.
type AddressHandler struct {
	service service.AddressService
	logger  zerolog.Logger
}

func NewAddressHandler(service service.AddressService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	addresses, err := h.service.List(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, addresses)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.AddressInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	address, err := h.service.Create(r.Context(), userID, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, address)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.AddressInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	address, err := h.service.Update(r.Context(), userID, id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, address)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeNoContent(w)
}
