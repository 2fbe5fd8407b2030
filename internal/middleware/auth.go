package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"staykart/internal/auth"
	"staykart/internal/handler"
	"staykart/internal/model"

	"github.com/rs/zerolog"
)

// SessionHeader identifies a guest shopper.
const SessionHeader = "X-Session-ID"

const (
	minSessionIDLen = 16
	maxSessionIDLen = 128
)

// TokenValidator parses bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Authenticate resolves the request identity. A bearer token, when present,
// must be valid and not revoked; the X-Session-ID header identifies guests.
// Anonymous requests pass through with an empty viewer.
func Authenticate(tokens TokenValidator, revoked RevocationChecker, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var viewer model.Viewer

			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sessionID != "" {
				if len(sessionID) < minSessionIDLen || len(sessionID) > maxSessionIDLen {
					handler.WriteError(w, r, model.NewValidationError(model.FieldError{
						Field: SessionHeader,
						Msg:   fmt.Sprintf("must be %d to %d characters", minSessionIDLen, maxSessionIDLen),
					}), logger)
					return
				}
				viewer.SessionID = sessionID
			}

			if header := r.Header.Get("Authorization"); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || strings.TrimSpace(token) == "" {
					handler.WriteError(w, r, model.Errorf(model.ErrCodeUnauthorised, "authorization header must be a bearer token"), logger)
					return
				}

				claims, err := tokens.Validate(strings.TrimSpace(token))
				if err != nil {
					msg := "invalid token"
					if errors.Is(err, auth.ErrExpiredToken) {
						msg = "token has expired"
					}
					logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
					handler.WriteError(w, r, model.NewDomainError(model.ErrCodeUnauthorised, msg), logger)
					return
				}

				blacklisted, err := revoked.IsBlacklisted(ctx, claims.ID)
				if err != nil {
					handler.WriteError(w, r, fmt.Errorf("check token revocation: %w", err), logger)
					return
				}
				if blacklisted {
					handler.WriteError(w, r, model.NewDomainError(model.ErrCodeUnauthorised, "token has been revoked"), logger)
					return
				}

				session := viewer.SessionID
				viewer = claims.Viewer()
				viewer.SessionID = session
				ctx = auth.WithClaims(ctx, claims)
			}

			ctx = auth.WithViewer(ctx, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a signed-in user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.ViewerFrom(r.Context()).IsAuthenticated() {
			handler.WriteError(w, r, model.ErrUnauthorised, zerolog.Nop())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from anyone but administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := auth.ViewerFrom(r.Context())
		switch {
		case !viewer.IsAuthenticated():
			handler.WriteError(w, r, model.ErrUnauthorised, zerolog.Nop())
		case !viewer.IsAdmin():
			handler.WriteError(w, r, model.ErrForbidden, zerolog.Nop())
		default:
			next.ServeHTTP(w, r)
		}
	})
}
