package middleware

import (
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Limit is the maximum number of requests allowed per Window for a
	// single key.
	Limit int

	// Window is the counting window, e.g. time.Minute.
	Window time.Duration

	// KeyFunc derives the bucket key from the request. Defaults to the
	// client IP (from the IP middleware when installed, the peer
	// address otherwise).
	KeyFunc func(ctx *common.Context) string
}

// bucket tracks one key's window counter plus a leaky-bucket pacer that
// smooths admitted requests across the window.
type bucket struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
	pacer       ratelimit.Limiter
}

// RateLimiter admits or rejects requests per key. Admitted requests
// are additionally paced through Uber's leaky-bucket limiter.
type RateLimiter struct {
	limit   int
	window  time.Duration
	buckets sync.Map // map[string]*bucket
}

// NewRateLimiter creates a limiter allowing limit requests per window
// for each distinct key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Second
	}
	return &RateLimiter{limit: limit, window: window}
}

// Allow reports whether a request for key is admitted, blocking
// admitted requests briefly as the pacer requires.
func (l *RateLimiter) Allow(key string) bool {
	b := l.bucketFor(key)

	b.mu.Lock()
	now := time.Now()
	if now.Sub(b.windowStart) > l.window {
		b.windowStart = now
		b.count = 0
	}
	b.count++
	allowed := b.count <= l.limit
	b.mu.Unlock()

	if allowed {
		b.pacer.Take()
	}
	return allowed
}

func (l *RateLimiter) bucketFor(key string) *bucket {
	if v, ok := l.buckets.Load(key); ok {
		return v.(*bucket)
	}
	rps := int(float64(l.limit) / l.window.Seconds())
	if rps < 1 {
		rps = 1
	}
	b := &bucket{windowStart: time.Now(), pacer: ratelimit.New(rps)}
	if existing, loaded := l.buckets.LoadOrStore(key, b); loaded {
		return existing.(*bucket)
	}
	return b
}

// RateLimit returns a middleware that short-circuits with a declared
// 429 once a key exhausts its window allowance. Rejections are logged
// at Warn level.
func RateLimit(config RateLimitConfig, logger *zap.Logger) common.Middleware {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(ctx *common.Context) string {
			if ip := ClientIP(ctx); ip != "" {
				return ip
			}
			return ctx.Request.RemoteAddr()
		}
	}
	limiter := NewRateLimiter(config.Limit, config.Window)

	return func(ctx *common.Context, next common.Next) (common.Result, error) {
		key := keyFunc(ctx)
		if !limiter.Allow(key) {
			logger.Warn("rate limit exceeded",
				zap.String("key", key),
				zap.String("method", ctx.Request.Method()),
				zap.String("path", ctx.Request.Path()),
			)
			return nil, common.TooManyRequests()
		}
		return next()
	}
}
