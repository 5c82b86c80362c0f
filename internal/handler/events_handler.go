package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/websocket"

	"github.com/hitoshi/careportal/internal/events"
	"github.com/hitoshi/careportal/internal/model"
)

const (
	// keepaliveInterval はアイドル時にpingを送る間隔。
	keepaliveInterval = 30 * time.Second
	// writeWait は1メッセージの送信に許す時間。
	writeWait = 10 * time.Second
)

// eventMessage はWebSocketで送信するメッセージ。
type eventMessage struct {
	Type       string     `json:"type"` // ready, change, ping
	Collection string     `json:"collection,omitempty"`
	Owner      string     `json:"owner,omitempty"`
	At         *time.Time `json:"at,omitempty"`
}

// EventsHandler はドキュメント変更通知をWebSocketで配信する。
// クライアントは通知を受けて該当する画面のデータを再取得する。
type EventsHandler struct {
	subscriber    events.Subscriber
	allowedOrigin string
	logger        *slog.Logger
}

// NewEventsHandler はEventsHandlerを生成する。
// allowedOriginが空の場合はOriginを検証しない。
func NewEventsHandler(subscriber events.Subscriber, allowedOrigin string) *EventsHandler {
	return &EventsHandler{
		subscriber:    subscriber,
		allowedOrigin: allowedOrigin,
		logger:        slog.Default(),
	}
}

var errOriginNotAllowed = errors.New("websocket origin not allowed")

// Stream はログインユーザー宛ての変更通知を送信し続ける。
// GET /api/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	websocket.Server{
		Handshake: h.checkOrigin,
		Handler: func(conn *websocket.Conn) {
			h.serve(r.Context(), conn, userID)
		},
	}.ServeHTTP(w, r)
}

// checkOrigin はブラウザからの接続のOriginを検証する。Originを送らないクライアントは許可する。
func (h *EventsHandler) checkOrigin(_ *websocket.Config, r *http.Request) error {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || origin == h.allowedOrigin {
		return nil
	}
	h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
	return errOriginNotAllowed
}

func (h *EventsHandler) serve(parent context.Context, conn *websocket.Conn, userID string) {
	defer conn.Close()
	// http.ServerのRead/WriteTimeoutはハイジャック後の接続にも残るため解除する
	_ = conn.SetDeadline(time.Time{})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	ch, unsubscribe := h.subscriber.Subscribe(ctx)
	defer unsubscribe()

	// クライアントからの受信は切断検知にのみ使う
	go func() {
		defer cancel()
		var discard string
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	if err := send(conn, eventMessage{Type: "ready"}); err != nil {
		return
	}
	h.logger.Debug("event stream opened", slog.String("user_id", userID))

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("event stream closed", slog.String("user_id", userID))
			return
		case <-ticker.C:
			if err := send(conn, eventMessage{Type: "ping"}); err != nil {
				return
			}
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if !events.Visible(ev, userID) {
				continue
			}
			if err := send(conn, toEventMessage(ev)); err != nil {
				return
			}
		}
	}
}

func send(conn *websocket.Conn, msg eventMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return websocket.JSON.Send(conn, msg)
}

func toEventMessage(ev model.ChangeEvent) eventMessage {
	msg := eventMessage{Type: "change", Collection: ev.Collection, Owner: ev.Owner}
	if !ev.At.IsZero() {
		at := ev.At
		msg.At = &at
	}
	return msg
}
