// Package events はドキュメントの変更通知を購読者へ配信する。
//
// 別タブや別端末で同じユーザーのデータが書き換えられたとき、クライアントは
// 通知を受けて該当コレクションを再読み込みする。競合の解決は行わない。
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
)

// subscriberBuffer は購読者ごとのバッファ長。溢れたイベントは破棄する。
const subscriberBuffer = 16

// Subscriber は変更通知の購読を提供する。
type Subscriber interface {
	// Subscribe は通知を受け取るチャネルと購読解除関数を返す。
	// ctxが終了した場合も購読は解除される。
	Subscribe(ctx context.Context) (<-chan model.ChangeEvent, func())
}

// LocalBroker はプロセス内で変更通知を配信する。
type LocalBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan model.ChangeEvent
	logger *slog.Logger
}

// NewLocalBroker はLocalBrokerを生成する。
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		subs:   make(map[int]chan model.ChangeEvent),
		logger: slog.Default(),
	}
}

// Publish は全購読者へイベントを配信する。受信が追いつかない購読者への配信は破棄する。
func (b *LocalBroker) Publish(_ context.Context, event model.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Debug("change event dropped for slow subscriber",
				slog.Int("subscriber", id),
				slog.String("collection", event.Collection),
			)
		}
	}
	return nil
}

// Subscribe は通知を受け取るチャネルを返す。
func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan model.ChangeEvent, func()) {
	ch := make(chan model.ChangeEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel
}

// SubscriberCount は現在の購読者数を返す。
func (b *LocalBroker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Visible はイベントが指定ユーザーに配信されるべきかを返す。
// グローバルキーへの書き込みは全ユーザーに配信する。
func Visible(event model.ChangeEvent, userID string) bool {
	return event.Owner == "" || event.Owner == userID
}

var (
	_ repository.ChangePublisher = (*LocalBroker)(nil)
	_ Subscriber                 = (*LocalBroker)(nil)
)
