package handler

import (
	"net/http"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category requests.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetBySlug(r.Context(), auth.ViewerFrom(r.Context()), r.PathValue("slug"))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.CategoryInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	category, err := h.service.Create(r.Context(), &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.CategoryInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	category, err := h.service.Update(r.Context(), id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeNoContent(w)
}
