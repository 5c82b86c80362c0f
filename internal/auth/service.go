// Package auth は会員登録、ログイン、セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 6

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int    // セッション有効期間（秒）
	TokenSecret   string // Bearerトークンの署名鍵
}

// RegisterInput は会員登録の入力。
type RegisterInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ProfileInput はプロフィール更新の入力。
type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Result は登録またはログインの結果。
type Result struct {
	User    *model.User
	Session *model.Session
	// Token はセッションに紐づくBearerトークン
	Token string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
		now:         time.Now,
	}
}

// Register はユーザーを作成し、そのままログイン状態にする。
// ユーザー名はメールアドレスの@より前の部分とする。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	if firstName == "" || lastName == "" || email == "" || phone == "" || in.Password == "" {
		return nil, model.NewInvalidRegistrationError("必須項目が未入力です")
	}
	if in.Password != in.ConfirmPassword {
		return nil, model.NewInvalidRegistrationError("パスワードが一致しません")
	}
	if len([]rune(in.Password)) < minPasswordLength {
		return nil, model.NewInvalidRegistrationError("パスワードは6文字以上にしてください")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	username, _, _ := strings.Cut(email, "@")
	now := s.now()
	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        phone,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return s.issue(ctx, user)
}

// Login はユーザー名またはメールアドレスとパスワードで認証する。
func (s *Service) Login(ctx context.Context, login, password string) (*Result, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		slog.Info("login rejected", slog.String("login", login))
		return nil, model.NewInvalidCredentialsError()
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return s.issue(ctx, user)
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
// セッションが無い、期限切れ、またはユーザーが存在しない場合は nil, nil を返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile は氏名、メールアドレス、電話番号を更新する。
// 空の項目は現在の値を維持する。メールアドレスは他のユーザーと重複できない。
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if v := strings.TrimSpace(in.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		user.Phone = v
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != user.Email {
		other, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, model.NewEmailTakenError()
		}
		user.Email = email
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}
	slog.Info("profile updated", slog.String("user_id", user.ID))
	return user, nil
}

// SessionIDFromToken はBearerトークンを検証し、セッションIDを返す。
func (s *Service) SessionIDFromToken(raw string) (string, error) {
	claims, err := ParseToken(raw, s.config.TokenSecret)
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

// issue はセッションとBearerトークンを発行する。
func (s *Service) issue(ctx context.Context, user *model.User) (*Result, error) {
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	token, err := MakeToken(user.ID, session.ID, session.ExpiresAt, s.config.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Result{User: user, Session: session, Token: token}, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
