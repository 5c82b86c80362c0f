// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/careportal/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。大文字小文字は区別しない。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByLogin はユーザー名またはメールアドレスでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByLogin(ctx context.Context, login string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile は氏名、メールアドレス、電話番号を更新する。
	UpdateProfile(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired はbefore時点で期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// DocumentStore はコレクション単位でJSONドキュメントを丸ごと読み書きする永続化インターフェース。
// 値は常にコレクション全体で置き換え、部分更新は行わない。
type DocumentStore interface {
	// Get は指定キーのドキュメントを返す。存在しない場合はnilを返す。
	Get(ctx context.Context, key Key) ([]byte, error)
	// Put は指定キーのドキュメントを上書き保存する。
	Put(ctx context.Context, key Key, body []byte) error
	// Delete は指定キーのドキュメントを削除する。存在しなくてもエラーにしない。
	Delete(ctx context.Context, key Key) error
}

// ChangePublisher はドキュメントの変更通知を配信するインターフェース。
type ChangePublisher interface {
	Publish(ctx context.Context, event model.ChangeEvent) error
}
