package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/careportal/internal/model"
)

// コレクション名
const (
	CollectionAppointments   = "appointments"
	CollectionMessages       = "messages"
	CollectionBills          = "mock_bills"
	CollectionPaymentHistory = "mock_payment_history"
)

// Key はドキュメントストアのキーを表す。
// Ownerが空のキーはグローバルキーとして全ユーザーで共有される。
type Key struct {
	Collection string
	Owner      string
}

// UserKey はユーザー単位のキーを生成する。
func UserKey(collection, userID string) Key {
	return Key{Collection: collection, Owner: userID}
}

// GlobalKey は全ユーザー共有のキーを生成する。
func GlobalKey(collection string) Key {
	return Key{Collection: collection}
}

// String は "appointments::<userId>" 形式のキー文字列を返す。
// グローバルキーの場合はコレクション名のみを返す。
func (k Key) String() string {
	if k.Owner == "" {
		return k.Collection
	}
	return k.Collection + "::" + k.Owner
}

// ErrCorruptDocument は保存済みドキュメントをJSONとして解釈できない場合のエラー。
var ErrCorruptDocument = errors.New("corrupt document")

// LoadJSON は指定キーのドキュメントをvに読み込む。
// ドキュメントが存在しない場合はfalseを返し、vは変更しない。
// 解釈できない場合はErrCorruptDocumentをラップしたエラーを返す。
func LoadJSON(ctx context.Context, store DocumentStore, key Key, v any) (bool, error) {
	body, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if body == nil {
		return false, nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return false, fmt.Errorf("%w %s: %v", ErrCorruptDocument, key, err)
	}
	return true, nil
}

// SaveJSON はvをJSONにエンコードして指定キーに保存する。
func SaveJSON(ctx context.Context, store DocumentStore, key Key, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}
	return store.Put(ctx, key, body)
}

// NotifyingStore は書き込みごとに変更イベントを配信するDocumentStoreのデコレータ。
// 配信の失敗は書き込み結果に影響させず、ログのみ出力する。
type NotifyingStore struct {
	DocumentStore
	publisher ChangePublisher
	now       func() time.Time
}

// NewNotifyingStore はNotifyingStoreを生成する。
func NewNotifyingStore(store DocumentStore, publisher ChangePublisher) *NotifyingStore {
	return &NotifyingStore{
		DocumentStore: store,
		publisher:     publisher,
		now:           time.Now,
	}
}

// Put はドキュメントを保存し、成功した場合に変更イベントを配信する。
func (s *NotifyingStore) Put(ctx context.Context, key Key, body []byte) error {
	if err := s.DocumentStore.Put(ctx, key, body); err != nil {
		return err
	}
	s.publish(ctx, key)
	return nil
}

// Delete はドキュメントを削除し、成功した場合に変更イベントを配信する。
func (s *NotifyingStore) Delete(ctx context.Context, key Key) error {
	if err := s.DocumentStore.Delete(ctx, key); err != nil {
		return err
	}
	s.publish(ctx, key)
	return nil
}

func (s *NotifyingStore) publish(ctx context.Context, key Key) {
	event := model.ChangeEvent{Collection: key.Collection, Owner: key.Owner, At: s.now()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish change event",
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

func wrapStoreErr(op string, key Key, err error) error {
	return fmt.Errorf("failed to %s document %s: %w", op, key, err)
}

var _ DocumentStore = (*NotifyingStore)(nil)
