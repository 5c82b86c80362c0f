// Package cleanup は期限切れセッションの定期削除ジョブを提供する。
// 期限切れのセッションは認証時点で無効として扱われるため、
// このジョブはストレージの肥大化を防ぐためだけに動く。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/careportal/internal/metrics"
)

// SessionDeleter は期限切れセッションの削除を抽象化するインターフェース。
// repository.SessionRepository がこれを満たす。
type SessionDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CleanupJob は期限切れセッションの削除ジョブ。
// 何度実行しても結果は変わらない。
type CleanupJob struct {
	sessions SessionDeleter
	metrics  metrics.MetricsCollector
	logger   *slog.Logger
	now      func() time.Time
	// Grace は期限切れ後に削除を猶予する期間（デフォルト: 0）
	Grace time.Duration
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(sessions SessionDeleter, mc metrics.MetricsCollector, logger *slog.Logger) *CleanupJob {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &CleanupJob{
		sessions: sessions,
		metrics:  mc,
		logger:   logger,
		now:      time.Now,
	}
}

// Run は現在時刻からGraceを引いた時点で期限切れのセッションを削除する。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := j.now()
	before := start.Add(-j.Grace)

	deleted, err := j.sessions.DeleteExpired(ctx, before)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}
	j.metrics.RecordSessionsCleaned(deleted)

	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deleted),
		slog.Time("before", before),
		slog.Float64("duration_ms", float64(j.now().Sub(start).Milliseconds())),
	)
	return nil
}

// RunEvery はintervalごとにRunを実行し、ctxがキャンセルされると戻る。
// 起動直後に1回実行する。個々の実行の失敗はログに残して次回に持ち越す。
func (j *CleanupJob) RunEvery(ctx context.Context, interval time.Duration) {
	_ = j.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("セッションクリーンアップワーカーを停止しました")
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}
