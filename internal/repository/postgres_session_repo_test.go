package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/careportal/internal/model"
)

var sessionRowColumns = []string{"id", "user_id", "expires_at", "created_at"}

var sessionClock = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func newMockSessionRepo(t *testing.T) (*PostgresSessionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewPostgresSessionRepo(db)
	repo.now = func() time.Time { return sessionClock }
	return repo, mock
}

func TestPostgresSessionRepo_Create(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	session := &model.Session{
		ID:        "sess-1",
		UserID:    "9f1c2d3e-0000-4000-8000-000000000001",
		CreatedAt: sessionClock,
		ExpiresAt: sessionClock.Add(24 * time.Hour),
	}

	mock.ExpectExec("INSERT INTO sessions .+ ON CONFLICT \\(id\\) DO NOTHING").
		WithArgs(session.ID, session.UserID, session.ExpiresAt, session.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// IDの衝突は既存セッションを上書きせずErrSessionExistsを返す
func TestPostgresSessionRepo_Create_Conflict(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	mock.ExpectExec("INSERT INTO sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), &model.Session{
		ID: "sess-1", UserID: "u", CreatedAt: sessionClock, ExpiresAt: sessionClock.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestPostgresSessionRepo_Create_RejectsNonPositiveLifetime(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	err := repo.Create(context.Background(), &model.Session{
		ID: "sess-1", UserID: "u", CreatedAt: sessionClock, ExpiresAt: sessionClock,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement should be executed")
}

// 有効期限はアプリケーションの時計と比較する
func TestPostgresSessionRepo_FindByID_UsesClock(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	expires := sessionClock.Add(time.Hour)

	mock.ExpectQuery("SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = \\$1 AND expires_at > \\$2").
		WithArgs("sess-1", sessionClock).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow("sess-1", "user-1", expires, sessionClock))

	session, err := repo.FindByID(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user-1", session.UserID)
	assert.True(t, session.ExpiresAt.Equal(expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepo_FindByID_ExpiredOrMissing(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	mock.ExpectQuery("SELECT id, user_id, expires_at, created_at").
		WithArgs("sess-1", sessionClock).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	session, err := repo.FindByID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestPostgresSessionRepo_FindByID_DBError(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	mock.ExpectQuery("SELECT id, user_id, expires_at, created_at").
		WillReturnError(errors.New("connection reset"))

	session, err := repo.FindByID(context.Background(), "sess-1")
	assert.Error(t, err)
	assert.Nil(t, session)
}

func TestPostgresSessionRepo_DeleteByID(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	mock.ExpectExec("DELETE FROM sessions WHERE id = \\$1").
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// 存在しないIDでもエラーにしない
	require.NoError(t, repo.DeleteByID(context.Background(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepo_DeleteExpired_ReturnsCount(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	before := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM sessions WHERE expires_at <= \\$1").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
