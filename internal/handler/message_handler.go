package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/mailbox"
	"github.com/hitoshi/careportal/internal/model"
)

// MessageServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type MessageServiceInterface interface {
	List(ctx context.Context, userID string, box model.Mailbox) (*mailbox.Listing, error)
	Get(ctx context.Context, userID, messageID string) (*model.Message, error)
	Open(ctx context.Context, userID, messageID string) (*model.Message, error)
	Delete(ctx context.Context, userID, messageID string) (*model.Message, error)
	Restore(ctx context.Context, userID, messageID string) (*model.Message, error)
	Purge(ctx context.Context, userID, messageID string) error
	Send(ctx context.Context, userID string, in mailbox.ComposeInput) (*model.Message, error)
	Reply(ctx context.Context, userID, messageID, body string) (*model.Message, error)
	Recipients(query string) []model.Recipient
}

// MessageHandler はメッセージのHTTPハンドラー。
type MessageHandler struct {
	service MessageServiceInterface
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(service MessageServiceInterface) *MessageHandler {
	return &MessageHandler{service: service}
}

// composeRequest は新規メッセージのリクエストボディ。
type composeRequest struct {
	RecipientID string `json:"recipientId"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// replyRequest は返信のリクエストボディ。
type replyRequest struct {
	Body string `json:"body"`
}

// List は指定メールボックスのメッセージ一覧を返す。
// GET /api/messages?mailbox=inbox|sent|deleted
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	box, err := mailbox.ParseMailbox(r.URL.Query().Get("mailbox"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	listing, err := h.service.List(r.Context(), userID, box)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Get はメッセージを返す。既読化は行わない。
// GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Get)
}

// Open はメッセージを開封し既読にする。
// POST /api/messages/{id}/open
func (h *MessageHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Open)
}

// Delete はメッセージをゴミ箱へ移動する。
// POST /api/messages/{id}/delete
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Delete)
}

// Restore はゴミ箱のメッセージを元のメールボックスへ戻す。
// POST /api/messages/{id}/restore
func (h *MessageHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Restore)
}

// Purge はメッセージを完全に削除する。
// DELETE /api/messages/{id}
func (h *MessageHandler) Purge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Purge(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Send は新規メッセージを送信する。
// POST /api/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req composeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Send(r.Context(), userID, mailbox.ComposeInput{
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Body:        req.Body,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Reply は受信メッセージの送信者へ返信する。
// POST /api/messages/{id}/reply
func (h *MessageHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req replyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Reply(r.Context(), userID, chi.URLParam(r, "id"), req.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Recipients は宛先候補を検索する。
// GET /api/messages/recipients?q=
func (h *MessageHandler) Recipients(w http.ResponseWriter, r *http.Request) {
	recipients := h.service.Recipients(r.URL.Query().Get("q"))
	if recipients == nil {
		recipients = []model.Recipient{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipients": recipients})
}

// respond はID指定の単一メッセージ操作を実行し、結果を返す。
func (h *MessageHandler) respond(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, messageID string) (*model.Message, error),
) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	msg, err := op(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
