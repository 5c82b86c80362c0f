package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/careportal/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ミドルウェア層が返す固定エラー。
var (
	errInternal = model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
	errUnauthorized = model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
	errCSRFInvalid = model.APIError{
		Code:     "CSRF_INVALID",
		Message:  "CSRFトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "ページを再読み込みしてから再度お試しください。",
	}
	errRateLimited = model.APIError{
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "Retry-Afterで指定された秒数待ってから再度お試しください。",
	}
)

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// エラー応答は患者ごとの内容を含みうるため、キャッシュさせない。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	// ダウンロード用に設定済みのヘッダーはエラー応答に残さない
	h.Del("Content-Disposition")
	w.WriteHeader(statusCode)

	body := ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to write error response",
			slog.String("code", apiErr.Code),
			slog.String("error", err.Error()),
		)
	}
}

func writeFixed(w http.ResponseWriter, statusCode int, apiErr model.APIError) {
	WriteErrorResponse(w, statusCode, &apiErr)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	writeFixed(w, http.StatusInternalServerError, errInternal)
}

// WriteUnauthorized は未認証リクエストへの401レスポンスを書き込む。
func WriteUnauthorized(w http.ResponseWriter) {
	writeFixed(w, http.StatusUnauthorized, errUnauthorized)
}

func writeCSRFError(w http.ResponseWriter) {
	writeFixed(w, http.StatusForbidden, errCSRFInvalid)
}

// writeRateLimited は429とRetry-After（秒）を書き込む。
func writeRateLimited(w http.ResponseWriter, retryAfterSec int) {
	w.Header().Set("Retry-After", strconv.Itoa(max(1, retryAfterSec)))
	writeFixed(w, http.StatusTooManyRequests, errRateLimited)
}
