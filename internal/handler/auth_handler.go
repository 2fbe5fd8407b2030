package handler

import (
	"net/http"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthHandler handles account and session requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register. A guest X-Session-ID is merged
// into the new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), &req, auth.ViewerFrom(r.Context()).SessionID)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req, auth.ViewerFrom(r.Context()).SessionID)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok || claims.ID == "" || claims.ExpiresAt == nil {
		WriteError(w, r, model.ErrUnauthorised, h.logger)
		return
	}

	if err := h.service.Logout(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, user)
}

func requireUser(r *http.Request) (uuid.UUID, error) {
	v := auth.ViewerFrom(r.Context())
	if v.UserID == nil {
		return uuid.Nil, model.ErrUnauthorised
	}
	return *v.UserID, nil
}
