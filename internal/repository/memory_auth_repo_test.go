package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/careportal/internal/model"
)

func TestMemoryUserRepo_FindByLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-1", Email: "Jane@Example.com", Username: "Jane", CreatedAt: base}))
	// 同じユーザー名の後発ユーザー
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-2", Email: "jane@other.org", Username: "jane", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-3", Email: "jane@third.org", Username: "Jane", CreatedAt: base.Add(2 * time.Hour)}))

	tests := []struct {
		login  string
		wantID string
	}{
		{login: "Jane", wantID: "u-1"},
		{login: "jane", wantID: "u-2"},
		{login: "JANE@EXAMPLE.COM", wantID: "u-1"},
		{login: "jane@third.org", wantID: "u-3"},
		{login: "nobody", wantID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			u, err := repo.FindByLogin(ctx, tt.login)
			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, u)
				return
			}
			require.NotNil(t, u)
			assert.Equal(t, tt.wantID, u.ID)
		})
	}
}

func TestMemoryUserRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-1", FirstName: "Jane", Email: "jane@example.com"}))

	u, err := repo.FindByID(ctx, "u-1")
	require.NoError(t, err)
	u.FirstName = "Mutated"

	again, err := repo.FindByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.FirstName)
}

func TestMemoryUserRepo_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-1"}))
	assert.Error(t, repo.Create(ctx, &model.User{ID: "u-1"}))
}

func TestMemoryUserRepo_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-1", FirstName: "Jane", Username: "jane", PasswordHash: "hash"}))

	updated := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateProfile(ctx, &model.User{
		ID: "u-1", FirstName: "Janet", LastName: "Doe", Email: "janet@example.com", Phone: "555", UpdatedAt: updated,
		Username: "ignored", PasswordHash: "ignored",
	}))

	u, err := repo.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Janet", u.FirstName)
	assert.Equal(t, "janet@example.com", u.Email)
	assert.Equal(t, updated, u.UpdatedAt)
	// ユーザー名とパスワードは更新対象外
	assert.Equal(t, "jane", u.Username)
	assert.Equal(t, "hash", u.PasswordHash)

	assert.Error(t, repo.UpdateProfile(ctx, &model.User{ID: "missing"}))
}

func TestMemorySessionRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemorySessionRepo()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Create(ctx, &model.Session{ID: "live", UserID: "u-1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &model.Session{ID: "stale", UserID: "u-1", ExpiresAt: now.Add(-time.Minute)}))
	assert.Error(t, repo.Create(ctx, &model.Session{ID: "live"}))

	s, err := repo.FindByID(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u-1", s.UserID)

	// 期限切れのセッションは見つからない扱い
	s, err = repo.FindByID(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, s)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.DeleteByID(ctx, "live"))
	s, err = repo.FindByID(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, s)
}
