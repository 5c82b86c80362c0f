// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/careportal/internal/auth"
	"github.com/hitoshi/careportal/internal/middleware"
	"github.com/hitoshi/careportal/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Result, error)
	Login(ctx context.Context, login, password string) (*auth.Result, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
	// SessionIDFromToken はBearerトークンからセッションIDを取り出す。
	SessionIDFromToken(raw string) (string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は会員登録とログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// loginRequest はログインリクエストのボディ。loginにはユーザー名またはメールアドレスを指定する。
type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// sessionResponse は登録・ログイン成功時のレスポンス。
type sessionResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register は会員登録を行い、そのままログイン状態にする。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.ID, h.config.SessionMaxAge)
	writeJSON(w, http.StatusCreated, toSessionResponse(result))
}

// Login はユーザー名またはメールアドレスで認証する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.ID, h.config.SessionMaxAge)
	writeJSON(w, http.StatusOK, toSessionResponse(result))
}

// Logout はセッションを破棄する。BearerトークンもセッションIDを失うため無効になる。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := middleware.SessionIDFromRequest(r, h.service); sessionID != "" {
		if err := h.service.Logout(r.Context(), sessionID); err != nil {
			slog.Error("failed to logout", slog.String("error", err.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromRequest(r, h.service)
	if sessionID == "" {
		middleware.WriteUnauthorized(w)
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil {
		middleware.WriteUnauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// setSessionCookie はセッションCookieを設定する。maxAgeが負の場合は削除する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toSessionResponse(result *auth.Result) sessionResponse {
	return sessionResponse{
		User:      toUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
	}
}
