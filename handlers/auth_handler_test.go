package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/auth"
	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/accounts"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAccountService is a mock implementation of AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) AdminLogin(ctx context.Context, input accounts.LoginInput) (policy.Session, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(policy.Session), args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, input accounts.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, input accounts.LoginInput) (*models.User, policy.Session, error) {
	args := m.Called(ctx, input)
	var u *models.User
	if v := args.Get(0); v != nil {
		u = v.(*models.User)
	}
	return u, args.Get(1).(policy.Session), args.Error(2)
}

func (m *MockAccountService) CurrentUser(ctx context.Context, s policy.Session) (*models.User, error) {
	args := m.Called(ctx, s)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type authFixture struct {
	handler  *AuthHandler
	accounts *MockAccountService
	store    *auth.SessionStore
	tokens   *auth.TokenIssuer
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		accounts: new(MockAccountService),
		store:    auth.NewSessionStore(auth.SessionOptions{Secret: "handler-test", MaxAge: time.Hour}),
		tokens:   auth.NewTokenIssuer("handler-test", time.Hour),
	}
	f.handler = NewAuthHandler(f.accounts, f.store, f.tokens, zap.NewNop())
	return f
}

// followUp returns a request carrying the cookies set by rec
func followUp(rec *httptest.ResponseRecorder) *http.Request {
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	return next
}

type sessionEnvelope struct {
	Data SessionResponse `json:"data"`
}

func TestHandleAdminLogin(t *testing.T) {
	t.Run("sets admin cookie and returns token", func(t *testing.T) {
		f := newAuthFixture()
		input := accounts.LoginInput{Username: "admin", Password: "admin123"}
		f.accounts.On("AdminLogin", mock.Anything, input).Return(policy.Admin(), nil)

		w := httptest.NewRecorder()
		f.handler.HandleAdminLogin(w, newRequest(http.MethodPost, "/", jsonBody(t, input), policy.Anonymous()))

		require.Equal(t, http.StatusOK, w.Code)
		var resp sessionEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Data.Session.IsAdmin)
		assert.NotEmpty(t, resp.Data.Token)

		s, err := f.tokens.Parse(resp.Data.Token)
		require.NoError(t, err)
		assert.True(t, s.IsAdmin)

		s, err = f.store.Load(followUp(w))
		require.NoError(t, err)
		assert.True(t, s.IsAdmin)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("AdminLogin", mock.Anything, mock.Anything).Return(policy.Anonymous(), services.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		f.handler.HandleAdminLogin(w, newRequest(http.MethodPost, "/", jsonBody(t, accounts.LoginInput{Username: "admin", Password: "x"}), policy.Anonymous()))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newAuthFixture()

		w := httptest.NewRecorder()
		f.handler.HandleAdminLogin(w, newRequest(http.MethodPost, "/", strings.NewReader("{"), policy.Anonymous()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.accounts.AssertNotCalled(t, "AdminLogin", mock.Anything, mock.Anything)
	})
}

func TestHandleRegister(t *testing.T) {
	input := accounts.RegisterInput{Username: "ada", FullName: "Ada", Email: "ada@example.com", Password: "secret1"}

	t.Run("created", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("Register", mock.Anything, input).Return(&models.User{ID: 3, Username: "ada", Email: "ada@example.com", PasswordHash: "hash"}, nil)

		w := httptest.NewRecorder()
		f.handler.HandleRegister(w, newRequest(http.MethodPost, "/", jsonBody(t, input), policy.Anonymous()))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"ada"`)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("duplicate", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("Register", mock.Anything, input).Return(nil, services.ErrDuplicateAccount)

		w := httptest.NewRecorder()
		f.handler.HandleRegister(w, newRequest(http.MethodPost, "/", jsonBody(t, input), policy.Anonymous()))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "username or email already exists", decodeError(t, w).Message)
	})
}

func TestHandleLogin(t *testing.T) {
	f := newAuthFixture()
	input := accounts.LoginInput{Username: "ada", Password: "secret1"}
	user := &models.User{ID: 3, Username: "ada"}
	f.accounts.On("Login", mock.Anything, input).Return(user, policy.User(3), nil)

	w := httptest.NewRecorder()
	f.handler.HandleLogin(w, newRequest(http.MethodPost, "/", jsonBody(t, input), policy.Anonymous()))

	require.Equal(t, http.StatusOK, w.Code)
	var resp sessionEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Data.User)
	assert.Equal(t, "ada", resp.Data.User.Username)

	s, err := f.store.Load(followUp(w))
	require.NoError(t, err)
	require.NotNil(t, s.UserID)
	assert.Equal(t, int64(3), *s.UserID)
	assert.False(t, s.IsAdmin)
}

func TestHandleLogout(t *testing.T) {
	f := newAuthFixture()

	// log in as a user first
	login := httptest.NewRecorder()
	require.NoError(t, f.store.SaveUser(login, httptest.NewRequest(http.MethodGet, "/", nil), 3))

	req := followUp(login)
	w := httptest.NewRecorder()
	f.handler.HandleLogout(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	s, err := f.store.Load(followUp(w))
	require.NoError(t, err)
	assert.True(t, s.IsAnonymous())
}

func TestHandleAdminLogout(t *testing.T) {
	f := newAuthFixture()

	login := httptest.NewRecorder()
	require.NoError(t, f.store.SaveAdmin(login, httptest.NewRequest(http.MethodGet, "/", nil)))

	w := httptest.NewRecorder()
	f.handler.HandleAdminLogout(w, followUp(login))
	require.Equal(t, http.StatusOK, w.Code)

	s, err := f.store.Load(followUp(w))
	require.NoError(t, err)
	assert.False(t, s.IsAdmin)
}

func TestHandleMe(t *testing.T) {
	f := newAuthFixture()
	f.accounts.On("CurrentUser", mock.Anything, policy.User(3)).Return(&models.User{ID: 3, Username: "ada"}, nil)
	f.accounts.On("CurrentUser", mock.Anything, policy.Anonymous()).Return(nil, nil)

	w := httptest.NewRecorder()
	f.handler.HandleMe(w, newRequest(http.MethodGet, "/", nil, policy.User(3)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp sessionEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Data.User)
	assert.Equal(t, int64(3), resp.Data.User.ID)

	w = httptest.NewRecorder()
	f.handler.HandleMe(w, newRequest(http.MethodGet, "/", nil, policy.Anonymous()))
	require.Equal(t, http.StatusOK, w.Code)

	resp = sessionEnvelope{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Nil(t, resp.Data.User)
	assert.True(t, resp.Data.Session.IsAnonymous())
}
