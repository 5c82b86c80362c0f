// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/careportal/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	userIDContextKey    = contextKey("user_id")
	sessionIDContextKey = contextKey("session_id")
)

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// TokenVerifier はBearerトークンからセッションIDを取り出す。
type TokenVerifier interface {
	SessionIDFromToken(raw string) (string, error)
}

// SessionIDFromRequest はCookieまたはAuthorizationヘッダーからセッションIDを取得する。
// Cookieを優先し、どちらも無い場合は空文字を返す。verifierがnilの場合Bearerは受け付けない。
func SessionIDFromRequest(r *http.Request, verifier TokenVerifier) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if verifier == nil {
		return ""
	}
	raw, ok := bearerToken(r)
	if !ok {
		return ""
	}
	sid, err := verifier.SessionIDFromToken(raw)
	if err != nil {
		slog.Debug("bearer token rejected", slog.String("error", err.Error()))
		return ""
	}
	return sid
}

// NewSessionMiddleware はセッションCookieまたはBearerトークンからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 認証済みユーザーIDとセッションIDをリクエストコンテキストに注入する。
// 未認証リクエストには401を返す。
func NewSessionMiddleware(sessionFinder SessionFinder, verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := SessionIDFromRequest(r, verifier)
			if sessionID == "" {
				WriteUnauthorized(w)
				return
			}

			session, err := sessionFinder.FindByID(r.Context(), sessionID)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				WriteUnauthorized(w)
				return
			}
			if session == nil {
				WriteUnauthorized(w)
				return
			}

			noteUserID(r.Context(), session.UserID)
			ctx := context.WithValue(r.Context(), userIDContextKey, session.UserID)
			ctx = context.WithValue(ctx, sessionIDContextKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// SessionIDFromContext はセッションミドルウェアが注入したセッションIDを返す。
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDContextKey).(string)
	return sid
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
