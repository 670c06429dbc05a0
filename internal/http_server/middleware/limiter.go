package middleware

import (
	"sync"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketLimiter 按键区分的令牌桶限流器, 桶容量为 burst, 每个 window 完全回满
type TokenBucketLimiter struct {
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	idle    time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

// NewTokenBucketLimiter 创建令牌桶限流器
func NewTokenBucketLimiter(burst int, window time.Duration, idle time.Duration) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		rate:    rate.Limit(float64(burst) / window.Seconds()),
		burst:   burst,
		idle:    idle,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow 检查是否允许请求
func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// StartCleanup 定期回收闲置的桶, ctx 结束时停止
func (l *TokenBucketLimiter) StartCleanup(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}

func (l *TokenBucketLimiter) cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := l.now().Add(-l.idle)
	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(threshold) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

func (l *TokenBucketLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimitMiddleware 创建 Echo 限流中间件
func RateLimitMiddleware(limiter *TokenBucketLimiter, keyFunc func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := keyFunc(c)

			if !limiter.Allow(key) {
				return service.NewErrorResponse(c, &service.ErrRateLimited)
			}

			return next(c)
		}
	}
}

// IPKeyFunc 基于客户端IP生成键
func IPKeyFunc(c echo.Context) string {
	return c.RealIP()
}
