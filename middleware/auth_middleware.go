package middleware

import (
	"net/http"
	"strings"

	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"go.uber.org/zap"
)

// TokenParser turns a bearer token into a session
type TokenParser interface {
	Parse(token string) (policy.Session, error)
}

// SessionLoader reads the session cookie
type SessionLoader interface {
	Load(r *http.Request) (policy.Session, error)
}

// AuthMiddleware resolves the acting session of every request
type AuthMiddleware struct {
	tokens   TokenParser
	sessions SessionLoader
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens TokenParser, sessions SessionLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// LoadSession puts the request's session in the context.
// A bearer token takes precedence over the cookie; an invalid token is rejected
// rather than falling back. An unreadable cookie counts as anonymous.
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		var session policy.Session
		if r.Header.Get("Authorization") != "" {
			token := extractBearerToken(r)
			if token == "" {
				m.logger.Warn("malformed authorization header",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
				return
			}

			s, err := m.tokens.Parse(token)
			if err != nil {
				m.logger.Warn("token validation failed",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteUnauthorized(w, "Invalid or expired token")
				return
			}
			session = s
		} else {
			s, err := m.sessions.Load(r)
			if err != nil {
				m.logger.Warn("discarding unreadable session cookie",
					zap.String("request_id", requestID),
					zap.Error(err))
			}
			session = s
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
	})
}

// RequireAdmin rejects every session but the admin's with 403
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := policy.RequireAdmin(GetSessionFromContext(r.Context())); err != nil {
			m.logger.Warn("admin access denied",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("path", r.URL.Path))
			_ = utils.WriteForbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests without a logged-in user with 401
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := policy.RequireUser(GetSessionFromContext(r.Context())); err != nil {
			m.logger.Debug("user login required",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Please log in first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
