package postgres

import (
	"context"
	"fmt"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"go.uber.org/zap"
)

// ContactMessageRepository implements repositories.ContactMessageRepository
type ContactMessageRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(db *DB, logger *zap.Logger) repositories.ContactMessageRepository {
	return &ContactMessageRepository{db: db, logger: logger}
}

// List returns all messages newest first
func (r *ContactMessageRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	query := `
		SELECT id, user_id, name, message, reply, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ContactMessage{}
	for rows.Next() {
		m := &models.ContactMessage{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Message, &m.Reply, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

// GetByID retrieves a message
func (r *ContactMessageRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	query := `
		SELECT id, user_id, name, message, reply, created_at
		FROM contact_messages
		WHERE id = $1
	`
	m := &models.ContactMessage{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.Name, &m.Message, &m.Reply, &m.CreatedAt,
	)
	if err != nil {
		return nil, mapError("get message", err)
	}
	return m, nil
}

// Create inserts a message
func (r *ContactMessageRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (user_id, name, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, m.UserID, m.Name, m.Message, m.CreatedAt).Scan(&m.ID); err != nil {
		return mapError("create message", err)
	}

	r.logger.Debug("contact message created", zap.Int64("id", m.ID), zap.Bool("anonymous", m.IsAnonymous()))
	return nil
}

// UpdateMessage replaces the message body
func (r *ContactMessageRepository) UpdateMessage(ctx context.Context, id int64, message string) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE contact_messages SET message = $2 WHERE id = $1`, id, message)
	if err != nil {
		return mapError("update message", err)
	}
	return requireAffected(result)
}

// SetReply stores or clears the admin reply
func (r *ContactMessageRepository) SetReply(ctx context.Context, id int64, reply *string) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE contact_messages SET reply = $2 WHERE id = $1`, id, reply)
	if err != nil {
		return mapError("set reply", err)
	}
	return requireAffected(result)
}

// Delete removes a message
func (r *ContactMessageRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "contact_messages", id)
}
