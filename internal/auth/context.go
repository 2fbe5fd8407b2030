package auth

import (
	"context"

	"staykart/internal/model"
)

type contextKey int

const (
	viewerKey contextKey = iota
	claimsKey
)

// WithViewer returns a copy of ctx carrying the request identity.
func WithViewer(ctx context.Context, v model.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFrom returns the request identity, or an anonymous viewer.
func ViewerFrom(ctx context.Context) model.Viewer {
	v, _ := ctx.Value(viewerKey).(model.Viewer)
	return v
}

// WithClaims returns a copy of ctx carrying the validated token claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFrom returns the validated token claims of the request, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}
