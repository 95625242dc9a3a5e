package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u := NewUser("ada", "Ada Lovelace", "ada@example.com", "hash")

	assert.Equal(t, "ada", u.Username)
	require.NotNil(t, u.FullName)
	assert.Equal(t, "Ada Lovelace", *u.FullName)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	assert.Nil(t, NewUser("bob", "", "bob@example.com", "hash").FullName)
}

func TestUser_DisplayName(t *testing.T) {
	blank := "   "
	full := "  Grace Hopper "

	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name wins", User{Username: "grace", FullName: &full}, "Grace Hopper"},
		{"nil full name", User{Username: "grace"}, "grace"},
		{"blank full name", User{Username: " grace ", FullName: &blank}, "grace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := NewUser("ada", "", "ada@example.com", "$2a$10$secret")

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "about", About{}.TableName())
	assert.Equal(t, "social_links", SocialLink{}.TableName())
	assert.Equal(t, "education", Education{}.TableName())
	assert.Equal(t, "experience", Experience{}.TableName())
	assert.Equal(t, "skills", Skill{}.TableName())
	assert.Equal(t, "projects", Project{}.TableName())
	assert.Equal(t, "project_comments", ProjectComment{}.TableName())
	assert.Equal(t, "project_ratings", ProjectRating{}.TableName())
	assert.Equal(t, "contact_messages", ContactMessage{}.TableName())
}

func TestNewRatingSummary(t *testing.T) {
	avg := func(v float64) *float64 { return &v }

	t.Run("no ratings", func(t *testing.T) {
		s := NewRatingSummary(nil, 0)
		assert.Nil(t, s.Average)
		assert.Equal(t, 0, s.Count)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		s := NewRatingSummary(avg(3.6666666), 3)
		require.NotNil(t, s.Average)
		assert.Equal(t, 3.7, *s.Average)
		assert.Equal(t, 3, s.Count)
	})

	t.Run("rounds half up", func(t *testing.T) {
		s := NewRatingSummary(avg(4.25), 4)
		require.NotNil(t, s.Average)
		assert.Equal(t, 4.3, *s.Average)
	})
}

func TestProjectComment_OwnerID(t *testing.T) {
	c := NewProjectComment(3, 9, "nice work")

	owner := c.OwnerID()
	require.NotNil(t, owner)
	assert.Equal(t, int64(9), *owner)
	assert.Equal(t, int64(3), c.ProjectID)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestContactMessage(t *testing.T) {
	uid := int64(5)

	anon := NewContactMessage(nil, "Visitor", "hello there")
	assert.True(t, anon.IsAnonymous())
	assert.False(t, anon.HasReply())

	owned := NewContactMessage(&uid, "Ada", "hi")
	assert.False(t, owned.IsAnonymous())

	empty := ""
	owned.Reply = &empty
	assert.False(t, owned.HasReply())

	reply := "thanks!"
	owned.Reply = &reply
	assert.True(t, owned.HasReply())
}
