package events

import (
	"context"
	"log/slog"
	"time"
)

const (
	// initialRelayBackoff は再接続の初回遅延。
	initialRelayBackoff = time.Second
	// maxRelayBackoff は再接続遅延の上限。
	maxRelayBackoff = time.Minute
	// stableRelayDuration 以上動いた後の失敗は連続失敗として数えない。
	stableRelayDuration = 30 * time.Second
)

// Relay はctxが終了するまでイベントを中継する処理。RedisBrokerが実装する。
type Relay interface {
	Run(ctx context.Context) error
}

// RelayBackoff は連続失敗回数に基づいて指数バックオフ遅延を計算する。
// 初回1秒、2倍ずつ増加、最大1分。
func RelayBackoff(consecutiveFailures int) time.Duration {
	delay := initialRelayBackoff
	for i := 0; i < consecutiveFailures; i++ {
		delay *= 2
		if delay > maxRelayBackoff {
			return maxRelayBackoff
		}
	}
	return delay
}

// RunRelay はRelayを起動し、失敗するたびにバックオフを挟んで再起動する。
// ctxが終了すると戻る。
func RunRelay(ctx context.Context, relay Relay, logger *slog.Logger) {
	runRelay(ctx, relay, logger, RelayBackoff)
}

func runRelay(ctx context.Context, relay Relay, logger *slog.Logger, backoff func(int) time.Duration) {
	failures := 0
	for {
		started := time.Now()
		err := relay.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) >= stableRelayDuration {
			failures = 0
		}

		delay := backoff(failures)
		failures++
		attrs := []any{slog.Int("consecutive_failures", failures), slog.Duration("retry_in", delay)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		logger.Warn("change event relay stopped; restarting", attrs...)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
