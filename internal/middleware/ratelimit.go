package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）。120/60 = 2 req/sec
	GeneralBurst    int           // API全般のバーストサイズ
	PaymentRate     rate.Limit    // 支払のレート（req/sec）。10/60
	PaymentBurst    int           // 支払のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// API全般 120 req/min/user、支払 10 req/min/user。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return PerMinuteConfig(120, 10)
}

// PerMinuteConfig は1分あたりのリクエスト数から設定を生成する。バーストは1分間の上限と同じ。
func PerMinuteConfig(generalPerMin, paymentPerMin int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rateLimitPerMinute(generalPerMin),
		GeneralBurst:    generalPerMin,
		PaymentRate:     rateLimitPerMinute(paymentPerMin),
		PaymentBurst:    paymentPerMin,
		CleanupInterval: 5 * time.Minute,
	}
}

func rateLimitPerMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

// userLimiter はユーザーごとのレートリミッターとアクセス時刻を保持する。
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet は1種類のレート制限についてユーザーごとのリミッターを管理する。
type limiterSet struct {
	kind  string
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*userLimiter
}

func newLimiterSet(kind string, limit rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		kind:     kind,
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*userLimiter),
	}
}

// allow はユーザーのリミッターを取得または作成し、1トークン消費できるかを返す。
func (s *limiterSet) allow(userID string, now time.Time) bool {
	s.mu.Lock()
	ul, ok := s.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[userID] = ul
	}
	ul.lastAccess = now
	s.mu.Unlock()
	return ul.limiter.AllowN(now, 1)
}

// evict は最終アクセスからttlを超えたエントリを削除する。
func (s *limiterSet) evict(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, ul := range s.limiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(s.limiters, userID)
		}
	}
}

func (s *limiterSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// middleware はこのリミッターを適用するミドルウェアを返す。
// リクエストコンテキストにユーザーIDが含まれている必要がある（SessionMiddlewareの後に配置）。
func (s *limiterSet) middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteUnauthorized(w)
				return
			}

			if !s.allow(userID, time.Now()) {
				slog.Warn("rate limit exceeded",
					slog.String("user_id", userID),
					slog.String("limit_type", s.kind),
				)
				writeRateLimited(w, retryAfterSeconds(s.limit))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter はユーザーごとのレート制限を管理する。
// API全般と支払の2種類を独立に提供する。
type RateLimiter struct {
	config  RateLimiterConfig
	general *limiterSet
	payment *limiterSet

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		general: newLimiterSet("general", config.GeneralRate, config.GeneralBurst),
		payment: newLimiterSet("payment", config.PaymentRate, config.PaymentBurst),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。複数回呼んでもよい。
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.general.middleware()
}

// PaymentMiddleware は支払専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) PaymentMiddleware() func(next http.Handler) http.Handler {
	return rl.payment.middleware()
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
func (rl *RateLimiter) GeneralLimiterCount() int { return rl.general.len() }

// PaymentLimiterCount は現在管理されている支払リミッターのエントリ数を返す。
func (rl *RateLimiter) PaymentLimiterCount() int { return rl.payment.len() }

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2
	rl.general.evict(now, ttl)
	rl.payment.evict(now, ttl)
}

// retryAfterSeconds はトークンが1つ補充されるまでの推定秒数を返す。
func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1.0/float64(r))))
}
