package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/events"
	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	// MetricsHandler は /metrics で公開するハンドラー。nilの場合は公開しない
	MetricsHandler http.Handler
	HealthChecks   map[string]HealthChecker

	// 認証・ユーザー
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig
	UserService UserServiceInterface
	Patients    PatientFinder

	// ドメイン
	AppointmentService AppointmentServiceInterface
	MessageService     MessageServiceInterface
	BillingService     BillingServiceInterface
	BillingRenderer    BillingDocumentRenderer
	MedicationService  MedicationServiceInterface
	TestResultService  TestResultServiceInterface
	ReportRenderer     TestReportRenderer

	// 変更通知
	Subscriber events.Subscriber
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS
//	  → (認証ルートのみ) Session → CSRF → RateLimit(General) → (支払のみ) RateLimit(Payment)
//
// 認証ルート（/auth/*）とヘルスチェックはセッションチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	// CORS ミドルウェアは全ルートに効かせる
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	appointmentHandler := NewAppointmentHandler(deps.AppointmentService)
	messageHandler := NewMessageHandler(deps.MessageService)
	billingHandler := NewBillingHandler(deps.BillingService, deps.BillingRenderer, deps.Patients)
	clinicalHandler := NewClinicalHandler(deps.MedicationService, deps.TestResultService, deps.ReportRenderer, deps.Patients)
	eventsHandler := NewEventsHandler(deps.Subscriber, deps.CORSAllowedOrigin)
	healthHandler := NewHealthHandler(deps.HealthChecks)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.AuthService))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/appointments", func(r chi.Router) {
			r.Get("/", appointmentHandler.List)
			r.Post("/", appointmentHandler.Schedule)
			r.Get("/catalog", appointmentHandler.Catalog)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", appointmentHandler.Get)
				r.Post("/cancel", appointmentHandler.Cancel)
				r.Post("/reschedule", appointmentHandler.Reschedule)
			})
		})

		r.Route("/api/messages", func(r chi.Router) {
			r.Get("/", messageHandler.List)
			r.Post("/", messageHandler.Send)
			r.Get("/recipients", messageHandler.Recipients)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", messageHandler.Get)
				r.Delete("/", messageHandler.Purge)
				r.Post("/open", messageHandler.Open)
				r.Post("/delete", messageHandler.Delete)
				r.Post("/restore", messageHandler.Restore)
				r.Post("/reply", messageHandler.Reply)
			})
		})

		r.Route("/api/billing", func(r chi.Router) {
			r.Get("/", billingHandler.Summary)
			// 支払は専用レート制限を追加
			r.With(deps.RateLimiter.PaymentMiddleware()).Post("/bills/{id}/pay", billingHandler.Pay)
			r.Get("/bills/{id}/statement.pdf", billingHandler.Statement)
			r.Get("/payments/{id}/receipt.pdf", billingHandler.Receipt)
		})

		r.Route("/api/medications", func(r chi.Router) {
			r.Get("/", clinicalHandler.ListMedications)
			r.Get("/{id}", clinicalHandler.GetMedication)
		})

		r.Route("/api/test-results", func(r chi.Router) {
			r.Get("/", clinicalHandler.ListTestResults)
			r.Get("/{id}", clinicalHandler.GetTestResult)
			r.Get("/{id}/report", clinicalHandler.TestReport)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Patch("/me", userHandler.UpdateProfile)
		})

		r.Get("/api/events", eventsHandler.Stream)
	})

	return r
}
