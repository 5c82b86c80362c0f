// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェア、サービス層、ワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(route string, duration time.Duration)
	RecordAppointmentAction(action string)
	RecordAppointmentsDropped(count int)
	RecordMessageAction(action string)
	RecordPayment(amount float64)
	RecordSessionsCleaned(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus          *prometheus.CounterVec
	requestLatency      *prometheus.HistogramVec
	appointmentActions  *prometheus.CounterVec
	appointmentsDropped prometheus.Counter
	messageActions      *prometheus.CounterVec
	payments            prometheus.Counter
	paymentAmount       prometheus.Counter
	sessionsCleaned     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careportal_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "careportal_http_request_duration_seconds",
			Help:    "ルート別のリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		appointmentActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careportal_appointment_actions_total",
			Help: "予約操作（scheduled, cancelled, rescheduled）の合計数",
		}, []string{"action"}),
		appointmentsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careportal_appointments_dropped_total",
			Help: "時刻を解釈できず一覧から除外された予約レコードの合計数",
		}),
		messageActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careportal_message_actions_total",
			Help: "メッセージ操作（sent, replied, deleted, restored, purged）の合計数",
		}, []string{"action"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careportal_payments_total",
			Help: "請求支払の合計件数",
		}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careportal_payment_amount_total",
			Help: "請求支払の合計金額",
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careportal_sessions_cleaned_total",
			Help: "クリーンアップジョブで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.appointmentActions,
		c.appointmentsDropped,
		c.messageActions,
		c.payments,
		c.paymentAmount,
		c.sessionsCleaned,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はルート別の処理時間を記録する。
func (c *Collector) RecordRequestLatency(route string, duration time.Duration) {
	c.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAppointmentAction は予約操作を記録する。
func (c *Collector) RecordAppointmentAction(action string) {
	c.appointmentActions.WithLabelValues(action).Inc()
}

// RecordAppointmentsDropped は一覧から除外された予約数を記録する。
func (c *Collector) RecordAppointmentsDropped(count int) {
	if count <= 0 {
		return
	}
	c.appointmentsDropped.Add(float64(count))
}

// RecordMessageAction はメッセージ操作を記録する。
func (c *Collector) RecordMessageAction(action string) {
	c.messageActions.WithLabelValues(action).Inc()
}

// RecordPayment は支払の件数と金額を記録する。
func (c *Collector) RecordPayment(amount float64) {
	c.payments.Inc()
	if amount > 0 {
		c.paymentAmount.Add(amount)
	}
}

// RecordSessionsCleaned は削除されたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	if count <= 0 {
		return
	}
	c.sessionsCleaned.Add(float64(count))
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type Nop struct{}

func (Nop) RecordHTTPStatus(int) {}
func (Nop) RecordRequestLatency(string, time.Duration) {}
func (Nop) RecordAppointmentAction(string) {}
func (Nop) RecordAppointmentsDropped(int) {}
func (Nop) RecordMessageAction(string) {}
func (Nop) RecordPayment(float64) {}
func (Nop) RecordSessionsCleaned(int64) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
