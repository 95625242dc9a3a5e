package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Ritu-90/c25077715-cmt120-cw2/models"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockMessageRepository struct{ mock.Mock }

func (m *MockMessageRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.ContactMessage), args.Error(1)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	args := m.Called(ctx, id)
	if msg := args.Get(0); msg != nil {
		return msg.(*models.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageRepository) UpdateMessage(ctx context.Context, id int64, message string) error {
	return m.Called(ctx, id, message).Error(0)
}

func (m *MockMessageRepository) SetReply(ctx context.Context, id int64, reply *string) error {
	return m.Called(ctx, id, reply).Error(0)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyNewMessage(msg *models.ContactMessage) error {
	return m.Called(msg).Error(0)
}

type fixture struct {
	svc      *Service
	messages *MockMessageRepository
	users    *MockUserRepository
	notifier *MockNotifier
}

func newFixture() *fixture {
	f := &fixture{
		messages: new(MockMessageRepository),
		users:    new(MockUserRepository),
		notifier: new(MockNotifier),
	}
	repos := &repositories.Repositories{Messages: f.messages, Users: f.users}
	f.svc = NewService(repos, f.notifier, zap.NewNop())
	return f
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestCreate_LoggedInUsesDisplayName(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		user     *models.User
		wantName string
	}{
		{"full name", &models.User{ID: 4, Username: "ada", FullName: strPtr("Ada Lovelace")}, "Ada Lovelace"},
		{"username fallback", &models.User{ID: 4, Username: "ada"}, "ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.users.On("GetByID", ctx, int64(4)).Return(tt.user, nil)
			f.messages.On("Create", ctx, mock.AnythingOfType("*models.ContactMessage")).Return(nil)
			f.notifier.On("NotifyNewMessage", mock.Anything).Return(nil)

			msg, err := f.svc.Create(ctx, policy.User(4), MessageInput{Name: "ignored", Message: " hello "})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, msg.Name)
			assert.Equal(t, "hello", msg.Message)
			require.NotNil(t, msg.UserID)
			assert.Equal(t, int64(4), *msg.UserID)
			f.notifier.AssertCalled(t, "NotifyNewMessage", msg)
		})
	}
}

func TestCreate_AnonymousNeedsName(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   MessageInput
		wantMsg string
	}{
		{"missing", MessageInput{Name: "   ", Message: "hello"}, "name is required if you are not logged in"},
		{"too short", MessageInput{Name: "A", Message: "hello"}, "name must be between 2 and 100 characters"},
		{"too long", MessageInput{Name: strings.Repeat("n", 101), Message: "hello"}, "name must be between 2 and 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(ctx, policy.Anonymous(), tt.input)
			require.Error(t, err)
			assert.True(t, services.IsValidationError(err))
			assert.Equal(t, tt.wantMsg, services.GetErrorDetails(err)["name"])
			f.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_Anonymous(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.messages.On("Create", ctx, mock.AnythingOfType("*models.ContactMessage")).Return(nil)
	f.notifier.On("NotifyNewMessage", mock.Anything).Return(nil)

	msg, err := f.svc.Create(ctx, policy.Anonymous(), MessageInput{Name: " Eve ", Message: "hi there"})
	require.NoError(t, err)
	assert.Equal(t, "Eve", msg.Name)
	assert.Nil(t, msg.UserID)
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreate_MessageTooShort(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), policy.Anonymous(), MessageInput{Name: "Eve", Message: " x "})
	assert.True(t, services.IsValidationError(err))
	assert.Contains(t, services.GetErrorDetails(err), "message")
}

func TestCreate_NotificationFailureIsIgnored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.messages.On("Create", ctx, mock.Anything).Return(nil)
	f.notifier.On("NotifyNewMessage", mock.Anything).Return(errors.New("queue full"))

	_, err := f.svc.Create(ctx, policy.Anonymous(), MessageInput{Name: "Eve", Message: "hello"})
	assert.NoError(t, err)
}

func TestUpdate_Access(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		owner   *int64
		session policy.Session
		allowed bool
	}{
		{"owner", int64Ptr(4), policy.User(4), true},
		{"admin on user message", int64Ptr(4), policy.Admin(), true},
		{"admin on anonymous message", nil, policy.Admin(), true},
		{"other user", int64Ptr(4), policy.User(5), false},
		{"user on anonymous message", nil, policy.User(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.messages.On("GetByID", ctx, int64(1)).Return(&models.ContactMessage{ID: 1, UserID: tt.owner, Message: "old"}, nil)
			f.messages.On("UpdateMessage", ctx, int64(1), "new").Return(nil)

			msg, err := f.svc.Update(ctx, tt.session, 1, EditInput{Message: " new "})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "new", msg.Message)
				return
			}
			assert.True(t, services.IsForbiddenError(err))
			f.messages.AssertNotCalled(t, "UpdateMessage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_AnonymousNeverLoads(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), policy.Anonymous(), 1, EditInput{Message: "x"})
	assert.True(t, services.IsForbiddenError(err))
	assert.True(t, services.IsForbiddenError(f.svc.Delete(context.Background(), policy.Anonymous(), 1)))
	f.messages.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdate_EmptyMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.messages.On("GetByID", ctx, int64(1)).Return(&models.ContactMessage{ID: 1, UserID: int64Ptr(4)}, nil)

	_, err := f.svc.Update(ctx, policy.User(4), 1, EditInput{Message: "  "})
	assert.True(t, services.IsValidationError(err))
	f.messages.AssertNotCalled(t, "UpdateMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.messages.On("GetByID", ctx, int64(1)).Return(&models.ContactMessage{ID: 1, UserID: int64Ptr(4)}, nil)
	f.messages.On("Delete", ctx, int64(1)).Return(nil)
	f.messages.On("GetByID", ctx, int64(2)).Return(nil, repositories.ErrNotFound)

	assert.True(t, services.IsForbiddenError(f.svc.Delete(ctx, policy.User(5), 1)))
	f.messages.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.NoError(t, f.svc.Delete(ctx, policy.User(4), 1))
	assert.True(t, services.IsNotFoundError(f.svc.Delete(ctx, policy.Admin(), 2)))
}

func TestReply(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		f := newFixture()
		for _, s := range []policy.Session{policy.Anonymous(), policy.User(4)} {
			_, err := f.svc.Reply(ctx, s, 1, ReplyInput{Reply: "thanks"})
			assert.True(t, services.IsForbiddenError(err))
			_, err = f.svc.EditReply(ctx, s, 1, ReplyInput{Reply: "thanks"})
			assert.True(t, services.IsForbiddenError(err))
			_, err = f.svc.DeleteReply(ctx, s, 1)
			assert.True(t, services.IsForbiddenError(err))
		}
		f.messages.AssertNotCalled(t, "SetReply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reply required", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Reply(ctx, policy.Admin(), 1, ReplyInput{Reply: " "})
		assert.True(t, services.IsValidationError(err))
	})

	t.Run("sets and clears", func(t *testing.T) {
		f := newFixture()
		f.messages.On("GetByID", ctx, int64(1)).Return(&models.ContactMessage{ID: 1}, nil)
		f.messages.On("SetReply", ctx, int64(1), strPtr("thanks")).Return(nil)
		f.messages.On("SetReply", ctx, int64(1), (*string)(nil)).Return(nil)

		msg, err := f.svc.Reply(ctx, policy.Admin(), 1, ReplyInput{Reply: " thanks "})
		require.NoError(t, err)
		assert.True(t, msg.HasReply())
		assert.Equal(t, "thanks", *msg.Reply)

		msg, err = f.svc.DeleteReply(ctx, policy.Admin(), 1)
		require.NoError(t, err)
		assert.False(t, msg.HasReply())
		f.messages.AssertExpectations(t)
	})

	t.Run("missing message", func(t *testing.T) {
		f := newFixture()
		f.messages.On("GetByID", ctx, int64(9)).Return(nil, repositories.ErrNotFound)
		_, err := f.svc.Reply(ctx, policy.Admin(), 9, ReplyInput{Reply: "x"})
		assert.True(t, services.IsNotFoundError(err))
	})
}
