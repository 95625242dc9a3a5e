// Package accounts authenticates the administrator and registered users.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/Ritu-90/c25077715-cmt120-cw2/auth"
	"github.com/Ritu-90/c25077715-cmt120-cw2/config"
	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"go.uber.org/zap"
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=60"`
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the login form shared by admin and user login
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service handles logins and registration
type Service struct {
	users  repositories.UserRepository
	admin  config.AdminConfig
	logger *zap.Logger
}

// NewService creates a new accounts service
func NewService(users repositories.UserRepository, admin config.AdminConfig, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		admin:  admin,
		logger: logger,
	}
}

// AdminLogin checks the submitted credentials against the configured admin account
func (s *Service) AdminLogin(ctx context.Context, input LoginInput) (policy.Session, error) {
	if err := services.Validate(input); err != nil {
		return policy.Anonymous(), err
	}

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(s.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(s.admin.Password)) == 1
	if !userOK || !passOK {
		s.logger.Warn("admin login failed", zap.String("username", input.Username))
		return policy.Anonymous(), services.ErrInvalidCredentials
	}

	s.logger.Info("admin logged in")
	return policy.Admin(), nil
}

// Register creates a user account.
// Username and full name are trimmed and the email is lowercased before validation.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := services.Validate(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		// bcrypt counts bytes, the validator counts characters
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, services.FieldError("password", "password must be at most 72 bytes")
		}
		return nil, services.WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(input.Username, input.FullName, input.Email, hash)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, services.ErrDuplicateAccount
		}
		return nil, services.WrapInternal("failed to create user", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies a registered user's password and returns their session
func (s *Service) Login(ctx context.Context, input LoginInput) (*models.User, policy.Session, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := services.Validate(input); err != nil {
		return nil, policy.Anonymous(), err
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, policy.Anonymous(), services.ErrInvalidCredentials
		}
		return nil, policy.Anonymous(), services.WrapInternal("failed to load user", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, policy.Anonymous(), services.WrapInternal("failed to verify password", err)
	}
	if !ok {
		s.logger.Info("user login failed", zap.String("username", input.Username))
		return nil, policy.Anonymous(), services.ErrInvalidCredentials
	}

	return user, policy.User(user.ID), nil
}

// CurrentUser returns the logged-in user, or nil for admin and anonymous sessions
func (s *Service) CurrentUser(ctx context.Context, session policy.Session) (*models.User, error) {
	if session.UserID == nil {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, *session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to load user", err)
	}
	return user, nil
}
