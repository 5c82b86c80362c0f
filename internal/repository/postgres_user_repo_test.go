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

var userRowColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "username", "password_hash", "created_at", "updated_at",
}

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

func TestPostgresUserRepo_FindByID_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id = \\$1").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "Jane", "Doe", "jane@example.com", "555-0100", "jane", "hash", now, now))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, "Jane Doe", user.FullName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 見つからない場合は nil, nil を返す
func TestPostgresUserRepo_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

// メールアドレスは小文字化して検索する
func TestPostgresUserRepo_FindByEmail_LowercasesInput(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM users WHERE lower\\(email\\) = \\$1").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "Jane", "Doe", "jane@example.com", "", "jane", "hash", now, now))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByEmail(context.Background(), "Jane@Example.COM")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
}

func TestPostgresUserRepo_FindByLogin_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("jane").
		WillReturnError(errors.New("connection reset"))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByLogin(context.Background(), "jane")
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	user := &model.User{
		ID: "user-1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		Phone: "555-0100", Username: "jane", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "Jane", "Doe", "jane@example.com", "555-0100", "jane", "hash", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgresUserRepo(db)
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 更新対象が存在しない場合はエラーを返す
func TestPostgresUserRepo_UpdateProfile_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresUserRepo(db)
	err = repo.UpdateProfile(context.Background(), &model.User{ID: "ghost"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
