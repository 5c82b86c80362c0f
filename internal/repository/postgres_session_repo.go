package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/careportal/internal/model"
)

// ErrSessionExists はセッションIDが既存のものと衝突したことを表す。
var ErrSessionExists = errors.New("session already exists")

// PostgresSessionRepo はPostgreSQLのsessionsテーブルでログインセッションを管理する。
// 有効期限の判定はアプリケーション側の時計で行い、MemorySessionRepoと同じ結果になるようにする。
type PostgresSessionRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db, now: time.Now}
}

// Create はログイン時に発行したセッションを保存する。
// 有効期限が作成時刻以前のセッションや、IDが既存と重なるセッションは保存しない。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if !session.ExpiresAt.After(session.CreatedAt) {
		return fmt.Errorf("session %s expires before it is created", session.ID)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		session.ID, session.UserID, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if n == 0 {
		return ErrSessionExists
	}
	return nil
}

// FindByID は有効なセッションを返す。存在しないか期限切れの場合はnil, nil。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at
		 FROM sessions
		 WHERE id = $1 AND expires_at > $2`,
		id, r.now(),
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &s, nil
}

// DeleteByID はログアウトしたセッションを削除する。存在しなくてもエラーにしない。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired はbefore以前に期限切れとなったセッションを削除し、削除件数を返す。
// 期限切れセッションのクリーンアップジョブから呼ばれる。
func (r *PostgresSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}

var _ SessionRepository = (*PostgresSessionRepo)(nil)
