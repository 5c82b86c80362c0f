package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/careportal/internal/model"
)

// MemoryUserRepo はプロセス内メモリを使用したユーザーリポジトリ。
// DATABASE_URLを指定しない開発環境とテストで使用する。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users []*model.User // 作成順
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{}
}

func (r *MemoryUserRepo) find(match func(u *model.User) bool) *model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied
		}
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id }), nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

// FindByLogin はユーザー名またはメールアドレスでユーザーを検索する。
// 同じユーザー名が複数ある場合は最も古いユーザーを返す。
func (r *MemoryUserRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	return r.find(func(u *model.User) bool {
		return u.Username == login || strings.EqualFold(u.Email, login)
	}), nil
}

// Create はユーザーを作成する。
func (r *MemoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == user.ID {
			return fmt.Errorf("failed to insert user: duplicate id %s", user.ID)
		}
	}
	copied := *user
	r.users = append(r.users, &copied)
	return nil
}

// UpdateProfile は氏名、メールアドレス、電話番号を更新する。
func (r *MemoryUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID != user.ID {
			continue
		}
		u.FirstName = user.FirstName
		u.LastName = user.LastName
		u.Email = user.Email
		u.Phone = user.Phone
		u.UpdatedAt = user.UpdatedAt
		return nil
	}
	return fmt.Errorf("user not found: %s", user.ID)
}

// MemorySessionRepo はプロセス内メモリを使用したセッションリポジトリ。
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	now      func() time.Time
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
}

// Create はセッションを作成する。
func (r *MemorySessionRepo) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("failed to create session: duplicate id %s", session.ID)
	}
	r.sessions[session.ID] = *session
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
func (r *MemorySessionRepo) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || !s.ExpiresAt.After(r.now()) {
		return nil, nil
	}
	return &s, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *MemorySessionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// DeleteExpired はbefore時点で期限切れのセッションを削除し、削除件数を返す。
func (r *MemorySessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// compile-time interface check
var (
	_ UserRepository    = (*MemoryUserRepo)(nil)
	_ SessionRepository = (*MemorySessionRepo)(nil)
)
