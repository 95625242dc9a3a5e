// Package contact handles the messages visitors leave on the contact page and
// the admin's replies to them.
package contact

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"go.uber.org/zap"
)

const (
	MinNameLength = 2
	MaxNameLength = 100
)

// Notifier is told about every new message
type Notifier interface {
	NotifyNewMessage(msg *models.ContactMessage) error
}

// MessageInput is the contact form. Name is ignored for logged-in users.
type MessageInput struct {
	Name    string `json:"name"`
	Message string `json:"message" validate:"required,min=2"`
}

// EditInput changes the text of an existing message
type EditInput struct {
	Message string `json:"message" validate:"required"`
}

// ReplyInput is the admin reply form
type ReplyInput struct {
	Reply string `json:"reply" validate:"required"`
}

// Service manages contact messages
type Service struct {
	messages repositories.ContactMessageRepository
	users    repositories.UserRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new contact service
func NewService(repos *repositories.Repositories, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		messages: repos.Messages,
		users:    repos.Users,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns all messages newest first
func (s *Service) List(ctx context.Context) ([]*models.ContactMessage, error) {
	out, err := s.messages.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list messages", err)
	}
	return out, nil
}

// Create stores a message. A logged-in user posts under their display name;
// anyone else must give a name.
func (s *Service) Create(ctx context.Context, session policy.Session, input MessageInput) (*models.ContactMessage, error) {
	input.Message = strings.TrimSpace(input.Message)
	input.Name = strings.TrimSpace(input.Name)

	var (
		userID *int64
		name   string
	)
	if session.UserID != nil {
		u, err := s.users.GetByID(ctx, *session.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrUserNotFound
			}
			return nil, services.WrapInternal("failed to load user", err)
		}
		userID = &u.ID
		name = u.DisplayName()
	} else {
		if err := validateName(input.Name); err != nil {
			return nil, err
		}
		name = input.Name
	}

	if err := services.Validate(input); err != nil {
		return nil, err
	}

	msg := models.NewContactMessage(userID, name, input.Message)
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, services.WrapInternal("failed to save message", err)
	}

	s.logger.Info("contact message received",
		zap.Int64("message_id", msg.ID),
		zap.Bool("anonymous", msg.IsAnonymous()))

	if s.notifier != nil {
		if err := s.notifier.NotifyNewMessage(msg); err != nil {
			s.logger.Warn("failed to queue message notification",
				zap.Int64("message_id", msg.ID),
				zap.Error(err))
		}
	}

	return msg, nil
}

func validateName(name string) error {
	if name == "" {
		return services.FieldError("name", "name is required if you are not logged in")
	}
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return services.FieldError("name", "name must be between 2 and 100 characters")
	}
	return nil
}

// Update edits the text of a message. Only its author or the admin may do so.
func (s *Service) Update(ctx context.Context, session policy.Session, id int64, input EditInput) (*models.ContactMessage, error) {
	msg, err := s.authorize(ctx, session, id)
	if err != nil {
		return nil, err
	}
	input.Message = strings.TrimSpace(input.Message)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	if err := s.messages.UpdateMessage(ctx, id, input.Message); err != nil {
		return nil, translate(err, "failed to update message")
	}
	msg.Message = input.Message
	return msg, nil
}

// Delete removes a message. Only its author or the admin may do so.
func (s *Service) Delete(ctx context.Context, session policy.Session, id int64) error {
	if _, err := s.authorize(ctx, session, id); err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return translate(err, "failed to delete message")
	}
	s.logger.Info("contact message deleted", zap.Int64("message_id", id))
	return nil
}

// Reply sets the admin reply on a message
func (s *Service) Reply(ctx context.Context, session policy.Session, id int64, input ReplyInput) (*models.ContactMessage, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	input.Reply = strings.TrimSpace(input.Reply)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.messages.SetReply(ctx, id, &input.Reply); err != nil {
		return nil, translate(err, "failed to save reply")
	}
	msg.Reply = &input.Reply
	return msg, nil
}

// EditReply replaces the admin reply on a message
func (s *Service) EditReply(ctx context.Context, session policy.Session, id int64, input ReplyInput) (*models.ContactMessage, error) {
	return s.Reply(ctx, session, id, input)
}

// DeleteReply clears the admin reply on a message
func (s *Service) DeleteReply(ctx context.Context, session policy.Session, id int64) (*models.ContactMessage, error) {
	if err := policy.RequireAdmin(session); err != nil {
		return nil, err
	}
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.messages.SetReply(ctx, id, nil); err != nil {
		return nil, translate(err, "failed to delete reply")
	}
	msg.Reply = nil
	return msg, nil
}

func (s *Service) authorize(ctx context.Context, session policy.Session, id int64) (*models.ContactMessage, error) {
	if !policy.CanPossiblyManage(session) {
		return nil, services.ErrForbidden
	}
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(session, msg.UserID); err != nil {
		s.logger.Warn("message access denied", zap.Int64("message_id", id))
		return nil, err
	}
	return msg, nil
}

func (s *Service) get(ctx context.Context, id int64) (*models.ContactMessage, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load message")
	}
	return msg, nil
}

func translate(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return services.ErrMessageNotFound
	}
	return services.WrapInternal(msg, err)
}
