package models

import "time"

// ContactMessage is a message left through the contact page.
// UserID is nil for anonymous visitors; such messages can only be managed by the admin.
type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Message   string    `json:"message" db:"message"`
	Reply     *string   `json:"reply,omitempty" db:"reply"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ContactMessage model
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// NewContactMessage creates a new contact message
func NewContactMessage(userID *int64, name, message string) *ContactMessage {
	return &ContactMessage{
		UserID:    userID,
		Name:      name,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// IsAnonymous reports whether the message was left without logging in.
func (m *ContactMessage) IsAnonymous() bool {
	return m.UserID == nil
}

// HasReply reports whether the admin has replied.
func (m *ContactMessage) HasReply() bool {
	return m.Reply != nil && *m.Reply != ""
}
