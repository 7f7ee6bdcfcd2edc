package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Roles(t *testing.T) {
	tests := []struct {
		name   string
		stored []string
		want   []string
	}{
		{"empty set gets ROLE_USER", nil, []string{RoleUser}},
		{"admin keeps order", []string{"ROLE_ADMIN"}, []string{"ROLE_ADMIN", RoleUser}},
		{"no duplicate when stored", []string{RoleUser, "ROLE_ADMIN"}, []string{RoleUser, "ROLE_ADMIN"}},
		{"duplicates collapse", []string{"ROLE_ADMIN", "ROLE_ADMIN"}, []string{"ROLE_ADMIN", RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUser().SetRoles(tt.stored)
			assert.Equal(t, tt.want, u.Roles())
		})
	}
}

func TestUser_StoredRolesIsACopy(t *testing.T) {
	u := NewUser().SetRoles([]string{"ROLE_ADMIN"})
	roles := u.StoredRoles()
	roles[0] = "ROLE_HACKED"

	assert.Equal(t, []string{"ROLE_ADMIN"}, u.StoredRoles())
}

func TestUser_AddArticle(t *testing.T) {
	u := NewUser()
	a := NewArticle(time.Now())

	u.AddArticle(a)

	require.Len(t, u.Articles, 1)
	assert.Same(t, u, a.Author)
	assert.True(t, u.HasArticle(a))

	t.Run("adding twice is a no-op", func(t *testing.T) {
		u.AddArticle(a)
		assert.Len(t, u.Articles, 1)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		u.AddArticle(nil)
		assert.Len(t, u.Articles, 1)
	})
}

func TestUser_RemoveArticle(t *testing.T) {
	t.Run("clears author pointing at user", func(t *testing.T) {
		u := NewUser()
		a := NewArticle(time.Now())
		u.AddArticle(a)

		assert.True(t, u.RemoveArticle(a))
		assert.Empty(t, u.Articles)
		assert.Nil(t, a.Author)
	})

	t.Run("keeps author reassigned elsewhere", func(t *testing.T) {
		u := NewUser()
		other := NewUser()
		a := NewArticle(time.Now())
		u.AddArticle(a)
		a.SetAuthor(other)

		assert.True(t, u.RemoveArticle(a))
		assert.Same(t, other, a.Author)
	})

	t.Run("matches persisted article by id", func(t *testing.T) {
		u := NewUser()
		u.ID = 7
		stored := &Article{ID: 3}
		u.AddArticle(stored)

		loaded := &Article{ID: 3, Author: &User{ID: 7}}
		assert.True(t, u.RemoveArticle(loaded))
		assert.Empty(t, u.Articles)
		assert.Nil(t, stored.Author)
		assert.Nil(t, loaded.Author)
	})

	t.Run("unknown article", func(t *testing.T) {
		u := NewUser()
		assert.False(t, u.RemoveArticle(NewArticle(time.Now())))
	})
}

func TestArticle_CreatedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := NewArticle(now)
	assert.Equal(t, now, a.CreatedAt)

	later := now.Add(3 * time.Hour)
	assert.Equal(t, "3 hours ago", a.CreatedAtAgo(later))

	a.Touch(later)
	require.NotNil(t, a.UpdatedAt)
	assert.Equal(t, now, a.CreatedAt, "touch must not move createdAt")

	a.SetCreatedAt(later)
	assert.Equal(t, later, a.CreatedAt)
}
