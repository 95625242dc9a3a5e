// Package policy decides who may mutate which resource.
//
// Every mutating operation receives the acting Session explicitly and asks
// the policy before writing anything. There is no ambient session state.
package policy

import (
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
)

// Session is the authentication state of one client: the admin flag or a
// registered user's id, never both.
type Session struct {
	IsAdmin bool   `json:"is_admin"`
	UserID  *int64 `json:"user_id"`
}

// Anonymous returns the session of a visitor who has not logged in.
func Anonymous() Session {
	return Session{}
}

// Admin returns the session of the site administrator.
func Admin() Session {
	return Session{IsAdmin: true}
}

// User returns the session of the registered user with the given id.
func User(id int64) Session {
	return Session{UserID: &id}
}

// IsAnonymous reports whether the session carries no identity at all.
func (s Session) IsAnonymous() bool {
	return !s.IsAdmin && s.UserID == nil
}

// CanManage reports whether the session may edit or delete a resource owned by ownerID.
//
// The admin manages everything. A user manages a resource only when it
// records that same user as owner; a resource without an owner is admin-only.
func CanManage(s Session, ownerID *int64) bool {
	if s.IsAdmin {
		return true
	}
	return s.UserID != nil && ownerID != nil && *s.UserID == *ownerID
}

// CanPossiblyManage reports whether any owned resource could pass CanManage
// for this session. Anonymous sessions can be refused before the owner is loaded.
func CanPossiblyManage(s Session) bool {
	return s.IsAdmin || s.UserID != nil
}

// Authorize returns services.ErrForbidden unless CanManage allows the session.
func Authorize(s Session, ownerID *int64) error {
	if !CanManage(s, ownerID) {
		return services.ErrForbidden
	}
	return nil
}

// RequireAdmin returns services.ErrForbidden for anything but the admin session.
func RequireAdmin(s Session) error {
	if !s.IsAdmin {
		return services.ErrForbidden
	}
	return nil
}

// RequireUser returns services.ErrUnauthorized unless a registered user is logged in.
func RequireUser(s Session) (int64, error) {
	if s.UserID == nil {
		return 0, services.ErrUnauthorized
	}
	return *s.UserID, nil
}
