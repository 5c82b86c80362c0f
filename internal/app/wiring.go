package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/careportal/internal/appointment"
	"github.com/hitoshi/careportal/internal/auth"
	"github.com/hitoshi/careportal/internal/billing"
	"github.com/hitoshi/careportal/internal/config"
	"github.com/hitoshi/careportal/internal/database"
	"github.com/hitoshi/careportal/internal/events"
	"github.com/hitoshi/careportal/internal/handler"
	"github.com/hitoshi/careportal/internal/mailbox"
	"github.com/hitoshi/careportal/internal/medication"
	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/middleware"
	"github.com/hitoshi/careportal/internal/report"
	"github.com/hitoshi/careportal/internal/repository"
	"github.com/hitoshi/careportal/internal/security"
	"github.com/hitoshi/careportal/internal/testresult"
)

// infra は外部接続とストレージ層をまとめたもの。Closeで全接続を閉じる。
type infra struct {
	db       *sql.DB
	redis    redis.UniversalClient
	store    repository.DocumentStore
	users    repository.UserRepository
	sessions repository.SessionRepository
	broker   interface {
		repository.ChangePublisher
		events.Subscriber
	}
	health map[string]handler.HealthChecker
}

// openInfra は設定に従ってDB、Redis、ドキュメントストア、変更通知ブローカーを構成する。
// Redisを使う場合、変更通知の中継はctxがキャンセルされるまでバックグラウンドで動く。
//
// ユーザーとセッションはDATABASE_URLがあればPostgreSQL、なければメモリに保存する。
func openInfra(ctx context.Context, cfg *config.Config) (*infra, error) {
	inf := &infra{health: make(map[string]handler.HealthChecker)}

	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		inf.db = db
		inf.health["database"] = db
		inf.users = repository.NewPostgresUserRepo(db)
		inf.sessions = repository.NewPostgresSessionRepo(db)
		slog.Info("database connection established")
	} else {
		slog.Warn("DATABASE_URL is not set; users and sessions are kept in memory")
		inf.users = repository.NewMemoryUserRepo()
		inf.sessions = repository.NewMemorySessionRepo()
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			inf.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			inf.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		inf.redis = client
		inf.health["redis"] = handler.HealthCheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		slog.Info("redis connection established")
	}

	var store repository.DocumentStore
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		if inf.db == nil {
			inf.Close()
			return nil, errors.New("postgres storage requires DATABASE_URL")
		}
		store = repository.NewPostgresDocumentStore(inf.db)
	case config.StorageBackendRedis:
		if inf.redis == nil {
			inf.Close()
			return nil, errors.New("redis storage requires REDIS_URL")
		}
		store = repository.NewRedisDocumentStore(inf.redis)
	default:
		store = repository.NewMemoryDocumentStore()
	}

	// 複数インスタンス構成ではRedis経由で変更通知を共有する
	if inf.redis != nil {
		rb := events.NewRedisBroker(inf.redis)
		go events.RunRelay(ctx, rb, slog.Default())
		inf.broker = rb
	} else {
		inf.broker = events.NewLocalBroker()
	}
	inf.store = repository.NewNotifyingStore(store, inf.broker)

	slog.Info("storage configured", slog.String("backend", cfg.StorageBackend))
	return inf, nil
}

// Close は開いている接続を閉じる。
func (inf *infra) Close() {
	if inf.redis != nil {
		if err := inf.redis.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if inf.db != nil {
		if err := inf.db.Close(); err != nil {
			slog.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}
}

// newRegistry はプロセスとGoランタイムのメトリクスを含むレジストリを生成する。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// buildRouter は全サービスを組み立ててルーターを返す。
// 返されたRateLimiterはサーバー停止時にStopすること。
func buildRouter(cfg *config.Config, inf *infra, reg *prometheus.Registry) (http.Handler, *middleware.RateLimiter) {
	mc := metrics.NewCollector(reg)

	authService := auth.NewService(inf.users, inf.sessions, auth.ServiceConfig{
		SessionMaxAge: cfg.SessionMaxAge,
		TokenSecret:   cfg.SessionSecret,
	})
	appointmentService := appointment.NewService(
		inf.store,
		appointment.NewNormalizer(cfg.ClinicLocation, slog.Default()),
		mc,
	)
	messageService := mailbox.NewService(inf.store, security.NewTextSanitizer(), mc)
	billingService := billing.NewService(inf.store, mc)
	renderer := report.NewRenderer()

	rateLimiter := middleware.NewRateLimiter(middleware.PerMinuteConfig(cfg.RateLimitGeneral, cfg.RateLimitPayment))

	deps := &handler.RouterDeps{
		SessionFinder:     inf.sessions,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		RateLimiter:    rateLimiter,
		Logger:         slog.Default(),
		Metrics:        mc,
		MetricsHandler: metrics.Handler(reg),
		HealthChecks:   inf.health,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},
		UserService: authService,
		Patients:    inf.users,

		AppointmentService: handler.NewAppointmentServiceAdapter(appointmentService),
		MessageService:     messageService,
		BillingService:     billingService,
		BillingRenderer:    renderer,
		MedicationService:  medication.NewService(),
		TestResultService:  testresult.NewService(),
		ReportRenderer:     renderer,

		Subscriber: inf.broker,
	}
	return handler.NewRouter(deps), rateLimiter
}
