package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthCheckTimeout は依存先ごとの疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// HealthChecker は依存先（DB、Redis）の疎通確認を行う。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// HealthCheckFunc は関数をHealthCheckerとして扱うアダプタ。
type HealthCheckFunc func(ctx context.Context) error

// PingContext はf(ctx)を呼ぶ。
func (f HealthCheckFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health は全依存先が応答すれば200、いずれかが失敗すれば503を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check.PingContext(ctx)
		cancel()
		if err != nil {
			slog.Warn("health check failed", slog.String("dependency", name), slog.String("error", err.Error()))
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := map[string]any{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	writeJSON(w, status, body)
}
