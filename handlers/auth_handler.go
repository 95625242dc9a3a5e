package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/middleware"
	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/accounts"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
	"go.uber.org/zap"
)

// AccountService defines the account operations the auth endpoints need
type AccountService interface {
	AdminLogin(ctx context.Context, input accounts.LoginInput) (policy.Session, error)
	Register(ctx context.Context, input accounts.RegisterInput) (*models.User, error)
	Login(ctx context.Context, input accounts.LoginInput) (*models.User, policy.Session, error)
	CurrentUser(ctx context.Context, session policy.Session) (*models.User, error)
}

// SessionWriter persists the session cookie
type SessionWriter interface {
	SaveAdmin(w http.ResponseWriter, r *http.Request) error
	SaveUser(w http.ResponseWriter, r *http.Request, userID int64) error
	ClearAdmin(w http.ResponseWriter, r *http.Request) error
	ClearUser(w http.ResponseWriter, r *http.Request) error
}

// TokenIssuer signs bearer tokens for API clients
type TokenIssuer interface {
	Issue(s policy.Session) (string, time.Time, error)
}

// SessionResponse describes the caller's authentication state
type SessionResponse struct {
	Session   policy.Session `json:"session"`
	User      *models.User   `json:"user,omitempty"`
	Token     string         `json:"token,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	accounts AccountService
	sessions SessionWriter
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts AccountService, sessions SessionWriter, tokens TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// HandleAdminLogin handles POST /api/v1/auth/admin/login
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var input accounts.LoginInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	session, err := h.accounts.AdminLogin(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := h.sessions.SaveAdmin(w, r); err != nil {
		h.logger.Error("failed to save admin session", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to start session")
		return
	}

	h.respondWithToken(w, session, nil)
}

// HandleAdminLogout handles POST /api/v1/auth/admin/logout
func (h *AuthHandler) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearAdmin(w, r); err != nil {
		h.logger.Error("failed to clear admin session", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to end session")
		return
	}
	_ = utils.WriteMessage(w, "Admin logged out")
}

// HandleRegister handles POST /api/v1/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input accounts.RegisterInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	user, err := h.accounts.Register(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.Int64("user_id", user.ID))
	_ = utils.WriteCreated(w, user)
}

// HandleLogin handles POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input accounts.LoginInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	user, session, err := h.accounts.Login(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := h.sessions.SaveUser(w, r, user.ID); err != nil {
		h.logger.Error("failed to save user session", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to start session")
		return
	}

	h.respondWithToken(w, session, user)
}

// HandleLogout handles POST /api/v1/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearUser(w, r); err != nil {
		h.logger.Error("failed to clear user session", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to end session")
		return
	}
	_ = utils.WriteMessage(w, "Logged out")
}

// HandleMe handles GET /api/v1/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session := sessionOf(r)

	user, err := h.accounts.CurrentUser(r.Context(), session)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, SessionResponse{Session: session, User: user})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, session policy.Session, user *models.User) {
	token, expires, err := h.tokens.Issue(session)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to issue token")
		return
	}

	_ = utils.WriteOK(w, SessionResponse{
		Session:   session,
		User:      user,
		Token:     token,
		ExpiresAt: &expires,
	})
}
