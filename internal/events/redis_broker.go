package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
)

// defaultChannel はRedis Pub/Subのチャネル名。
const defaultChannel = "careportal:changes"

// RedisBroker はRedis Pub/Subを介して複数インスタンス間で変更通知を配信する。
// 受信したイベントはプロセス内のLocalBrokerから購読者へ渡す。
type RedisBroker struct {
	client  redis.UniversalClient
	channel string
	local   *LocalBroker
	ready   chan struct{}
	once    sync.Once
}

// NewRedisBroker はRedisBrokerを生成する。受信を開始するにはRunを呼ぶ。
func NewRedisBroker(client redis.UniversalClient) *RedisBroker {
	return &RedisBroker{
		client:  client,
		channel: defaultChannel,
		local:   NewLocalBroker(),
		ready:   make(chan struct{}),
	}
}

// Publish はイベントをRedisへ送信する。自インスタンスの購読者にもRedis経由で届く。
func (b *RedisBroker) Publish(ctx context.Context, event model.ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscribe は通知を受け取るチャネルを返す。
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan model.ChangeEvent, func()) {
	return b.local.Subscribe(ctx)
}

// Ready はRedisの購読が確立すると閉じられるチャネルを返す。
func (b *RedisBroker) Ready() <-chan struct{} {
	return b.ready
}

// Run はRedisのチャネルを購読し、ctxが終了するまでイベントを中継する。
// 購読が切れた場合はエラーを返す。再接続はRunRelayで行う。
func (b *RedisBroker) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// 購読の確立を待つ
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	b.once.Do(func() { close(b.ready) })
	slog.Info("change event relay started", slog.String("channel", b.channel))

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("subscription to %s closed", b.channel)
			}
			var event model.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Warn("ignoring malformed change event", slog.String("error", err.Error()))
				continue
			}
			b.local.Publish(ctx, event)
		}
	}
}

var (
	_ repository.ChangePublisher = (*RedisBroker)(nil)
	_ Subscriber                 = (*RedisBroker)(nil)
)
