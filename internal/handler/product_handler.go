package handler

import (
	"net/http"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products?category=&featured=&search=&limit=&offset=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	featured, err := queryBool(r, "featured")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	q := r.URL.Query()
	filter := model.ProductFilter{
		CategorySlug: q.Get("category"),
		Featured:     featured,
		Search:       q.Get("search"),
		Limit:        limit,
		Offset:       offset,
	}

	page, err := h.service.List(r.Context(), auth.ViewerFrom(r.Context()), filter)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, page)
}

// Get handles GET /api/products/{ref}, where ref is an id or a slug.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), auth.ViewerFrom(r.Context()), r.PathValue("ref"))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.ProductInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// AddVariant handles POST /api/products/{id}/variants.
func (h *ProductHandler) AddVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.ProductVariantInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	variant, err := h.service.AddVariant(r.Context(), id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, variant)
}

// AddImage handles POST /api/products/{id}/images.
func (h *ProductHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.ProductImageInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	image, err := h.service.AddImage(r.Context(), id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, image)
}
