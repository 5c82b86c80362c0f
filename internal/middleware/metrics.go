package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/metrics"
)

// NewMetricsMiddleware はレスポンスのステータスコードとルート別の処理時間を記録する。
// ルートはchiのパターン（例: /api/appointments/{id}）で集計し、未マッチは"unmatched"とする。
func NewMetricsMiddleware(mc metrics.MetricsCollector) func(next http.Handler) http.Handler {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			mc.RecordHTTPStatus(rec.statusCode)
			mc.RecordRequestLatency(route, time.Since(start))
		})
	}
}
