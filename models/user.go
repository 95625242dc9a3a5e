package models

import (
	"strings"
	"time"
)

// User is a registered visitor who can comment on and rate projects.
// The site administrator is not a User; see config.AdminConfig.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(username, fullName, email, passwordHash string) *User {
	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if fullName != "" {
		u.FullName = &fullName
	}
	return u
}

// DisplayName is the name shown next to the user's contact messages:
// the full name when set, otherwise the username.
func (u *User) DisplayName() string {
	if u.FullName != nil {
		if name := strings.TrimSpace(*u.FullName); name != "" {
			return name
		}
	}
	return strings.TrimSpace(u.Username)
}
