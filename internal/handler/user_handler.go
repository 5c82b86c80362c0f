package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/careportal/internal/auth"
	"github.com/hitoshi/careportal/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// UpdateProfile は氏名、メールアドレス、電話番号を更新する。
	UpdateProfile(ctx context.Context, userID string, in auth.ProfileInput) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// UpdateProfile はログインユーザーのプロフィールを更新する。
// PATCH /api/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req auth.ProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
