package handler

import (
	"net/http"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

// ContentHandler serves editorials, galleries and site settings.
type ContentHandler struct {
	editorials service.EditorialService
	galleries  service.GalleryService
	settings   service.SettingService
	logger     zerolog.Logger
}

// NewContentHandler creates a new content handler.
func NewContentHandler(editorials service.EditorialService, galleries service.GalleryService, settings service.SettingService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		editorials: editorials,
		galleries:  galleries,
		settings:   settings,
		logger:     logger.With().Str("handler", "content").Logger(),
	}
}

// ListEditorials handles GET /api/editorials?status=&limit=&offset=.
func (h *ContentHandler) ListEditorials(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	status := model.EditorialStatus(r.URL.Query().Get("status"))
	if status != "" && status != model.EditorialDraft && status != model.EditorialPublished {
		WriteError(w, r, model.NewValidationError(model.FieldError{Field: "status", Msg: "must be one of: draft published"}), h.logger)
		return
	}

	page, err := h.editorials.List(r.Context(), auth.ViewerFrom(r.Context()), status, limit, offset)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, page)
}

// GetEditorial handles GET /api/editorials/{slug}.
func (h *ContentHandler) GetEditorial(w http.ResponseWriter, r *http.Request) {
	editorial, err := h.editorials.GetBySlug(r.Context(), auth.ViewerFrom(r.Context()), r.PathValue("slug"))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, editorial)
}

// CreateEditorial handles POST /api/editorials. New editorials start as drafts.
func (h *ContentHandler) CreateEditorial(w http.ResponseWriter, r *http.Request) {
	var in model.EditorialInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	editorial, err := h.editorials.Create(r.Context(), &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, editorial)
}

// UpdateEditorial handles PUT /api/editorials/{id}.
func (h *ContentHandler) UpdateEditorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	var in model.EditorialInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	editorial, err := h.editorials.Update(r.Context(), id, &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, editorial)
}

// PublishEditorial handles POST /api/editorials/{id}/publish.
func (h *ContentHandler) PublishEditorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	editorial, err := h.editorials.Publish(r.Context(), id)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, editorial)
}

// DeleteEditorial handles DELETE /api/editorials/{id}.
func (h *ContentHandler) DeleteEditorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	if err := h.editorials.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeNoContent(w)
}

func (h *ContentHandler) ListGalleries(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.galleries.List(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, galleries)
}

func (h *ContentHandler) CreateGallery(w http.ResponseWriter, r *http.Request) {
	var in model.GalleryInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	gallery, err := h.galleries.Create(r.Context(), &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, gallery)
}

func (h *ContentHandler) DeleteGallery(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	if err := h.galleries.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeNoContent(w)
}

// ListSettings handles GET /api/settings. Only public settings are shown to non-admins.
func (h *ContentHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, settings)
}

// PutSetting handles PUT /api/settings/{key}.
func (h *ContentHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	var in model.SettingInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	setting, err := h.settings.Upsert(r.Context(), r.PathValue("key"), &in)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, setting)
}

// DeleteSetting handles DELETE /api/settings/{key}.
func (h *ContentHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), r.PathValue("key")); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeNoContent(w)
}
