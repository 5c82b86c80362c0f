// Package app はコマンドの解析、依存関係の組み立て、各起動モードの実行を担う。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hitoshi/careportal/internal/config"
	"github.com/hitoshi/careportal/internal/database"
	"github.com/hitoshi/careportal/internal/logger"
	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/worker/cleanup"
)

// shutdownTimeout はグレースフルシャットダウンで処理中のリクエストを待つ上限。
const shutdownTimeout = 30 * time.Second

// Init はアプリケーションの初期化を行う。
// カレントディレクトリに.envがあれば環境変数として読み込み（既存の値は上書きしない）、
// JSON構造化ログをセットアップしてから設定を読み込む。
func Init(w io.Writer) (*config.Config, error) {
	// 1. .envの読み込み（存在しなくてもよい）
	envErr := godotenv.Load()

	// 2. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, os.Getenv("LOG_LEVEL"))
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		slog.Warn("failed to load .env", slog.String("error", envErr.Error()))
	}

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, err := ParseCommand(args)
	if err != nil {
		writeUsage(w)
		return err
	}

	// help と healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHelp {
		writeUsage(w)
		return nil
	}
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case CommandWorker:
		return runWorker(ctx, cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(ctx, cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// ctxがキャンセルされる（SIGINT/SIGTERM）とグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	inf, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer inf.Close()

	router, rateLimiter := buildRouter(cfg, inf, newRegistry())
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second, // PDF生成を含む
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// 期限切れセッションの削除をSESSION_CLEANUP_INTERVALごとに実行する。
// セッションはPostgreSQLにある場合のみ共有されるため、DATABASE_URLが必須。
func runWorker(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("worker requires DATABASE_URL")
	}
	inf, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer inf.Close()

	mc := metrics.NewCollector(newRegistry())
	job := cleanup.NewCleanupJob(inf.sessions, mc, slog.Default())

	slog.Info("worker starting", slog.Duration("cleanup_interval", cfg.SessionCleanupInterval))
	job.RunEvery(ctx, cfg.SessionCleanupInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("migrate requires DATABASE_URL")
	}
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
// 解析できないURLは全体を伏せる。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
