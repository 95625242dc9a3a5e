package middleware

import (
	"context"

	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Context key type to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the acting session
	SessionKey contextKey = "session"
)

// GetRequestIDFromContext returns the id assigned by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// GetSessionFromContext retrieves the session from context.
// Requests that never passed LoadSession are anonymous.
func GetSessionFromContext(ctx context.Context) policy.Session {
	if val := ctx.Value(SessionKey); val != nil {
		if s, ok := val.(policy.Session); ok {
			return s
		}
	}
	return policy.Anonymous()
}

// WithSession adds the session to the context
func WithSession(ctx context.Context, s policy.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}
