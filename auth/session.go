// Package auth carries sessions between requests: signed cookies for browsers,
// bearer tokens for API clients, and password hashing for registered users.
package auth

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/gorilla/sessions"
)

const (
	// SessionCookieName is the cookie that carries the session
	SessionCookieName = "portfolio_session"

	adminKey  = "is_admin"
	userIDKey = "user_id"
)

// SessionOptions configures the session cookie
type SessionOptions struct {
	Secret string
	MaxAge time.Duration
	Secure bool
}

// SessionStore reads and writes policy sessions in a signed, encrypted cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore derives signing and encryption keys from the secret
func NewSessionStore(opts SessionOptions) *SessionStore {
	h := sha256.Sum256([]byte("auth:" + opts.Secret))
	e := sha256.Sum256([]byte("enc:" + opts.Secret))

	store := sessions.NewCookieStore(h[:], e[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   opts.Secure,
	}
	store.MaxAge(store.Options.MaxAge)

	return &SessionStore{store: store}
}

// Load returns the request's session. A missing cookie is an anonymous session.
// A cookie that fails to decode also yields an anonymous session, together with the decode error.
func (s *SessionStore) Load(r *http.Request) (policy.Session, error) {
	sess, err := s.store.Get(r, SessionCookieName)
	if err != nil {
		return policy.Anonymous(), err
	}
	return fromValues(sess.Values), nil
}

func fromValues(values map[interface{}]interface{}) policy.Session {
	if admin, _ := values[adminKey].(bool); admin {
		return policy.Admin()
	}
	if id, ok := values[userIDKey].(int64); ok {
		return policy.User(id)
	}
	return policy.Anonymous()
}

// SaveAdmin marks the session as admin and drops any user login.
func (s *SessionStore) SaveAdmin(w http.ResponseWriter, r *http.Request) error {
	return s.update(w, r, func(v map[interface{}]interface{}) {
		delete(v, userIDKey)
		v[adminKey] = true
	})
}

// SaveUser logs the user in and drops any admin flag.
func (s *SessionStore) SaveUser(w http.ResponseWriter, r *http.Request, userID int64) error {
	return s.update(w, r, func(v map[interface{}]interface{}) {
		delete(v, adminKey)
		v[userIDKey] = userID
	})
}

// ClearAdmin removes the admin flag
func (s *SessionStore) ClearAdmin(w http.ResponseWriter, r *http.Request) error {
	return s.update(w, r, func(v map[interface{}]interface{}) {
		delete(v, adminKey)
	})
}

// ClearUser removes the user login
func (s *SessionStore) ClearUser(w http.ResponseWriter, r *http.Request) error {
	return s.update(w, r, func(v map[interface{}]interface{}) {
		delete(v, userIDKey)
	})
}

// update applies fn to the session values and writes the cookie.
// An undecodable cookie is replaced by a fresh session.
func (s *SessionStore) update(w http.ResponseWriter, r *http.Request, fn func(map[interface{}]interface{})) error {
	sess, err := s.store.Get(r, SessionCookieName)
	if err != nil {
		sess = sessions.NewSession(s.store, SessionCookieName)
		opts := *s.store.Options
		sess.Options = &opts
		sess.IsNew = true
	}
	fn(sess.Values)
	return sess.Save(r, w)
}
