package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/careportal/internal/middleware"
	"github.com/hitoshi/careportal/internal/model"
)

// maxRequestBodyBytes はJSONリクエストボディの上限。
const maxRequestBodyBytes = 64 << 10

// writeJSON はvをJSONとして書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// decodeJSON はリクエストボディをvに読み込む。失敗した場合は400を書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return false
	}
	return true
}

// requireUserID はセッションミドルウェアが設定したユーザーIDを返す。
// 存在しない場合は401を書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return "", false
	}
	return userID, true
}

// queryBool は "1" / "true" などの真偽値クエリを解釈する。未指定や不正値はdefを返す。
func queryBool(r *http.Request, name string, def bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeAppointmentNotFound,
		model.ErrCodeMessageNotFound,
		model.ErrCodeBillNotFound,
		model.ErrCodePaymentNotFound,
		model.ErrCodeResultNotFound,
		model.ErrCodeMedicationNotFound,
		model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeAppointmentNotCancellable,
		model.ErrCodeAppointmentNotReschedulable,
		model.ErrCodeBillAlreadyPaid,
		model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeInvalidAppointment,
		model.ErrCodeInvalidTimeSlot,
		model.ErrCodeInvalidMessage,
		model.ErrCodeInvalidRegistration,
		model.ErrCodeInvalidFilter,
		"INVALID_REQUEST":
		return http.StatusBadRequest
	case model.ErrCodeInvalidPayment:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidCredentials, "UNAUTHORIZED":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
