// middleware/ratelimit.go
package middleware

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Token bucket rate limiter implementation
type TokenBucket struct {
	tokens         float64
	maxTokens      float64
	refillRate     float64 // tokens per second
	lastRefillTime time.Time
	mu             sync.Mutex
}

func NewTokenBucket(maxTokens, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.maxTokens {
		tb.tokens = tb.maxTokens
	}
	tb.lastRefillTime = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimiter keeps one bucket per client IP.
type RateLimiter struct {
	buckets    map[string]*TokenBucket
	mu         sync.RWMutex
	maxTokens  float64
	refillRate float64
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*TokenBucket),
		maxTokens:  float64(requestsPerMinute),
		refillRate: float64(requestsPerMinute) / 60.0,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.RLock()
	bucket, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		bucket, exists = rl.buckets[key]
		if !exists {
			bucket = NewTokenBucket(rl.maxTokens, rl.refillRate)
			rl.buckets[key] = bucket
		}
		rl.mu.Unlock()
	}

	return bucket.Allow()
}

// cleanupLoop drops buckets idle for over an hour so the map does not grow
// without bound.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)
		rl.mu.Lock()
		for key, bucket := range rl.buckets {
			bucket.mu.Lock()
			idle := bucket.lastRefillTime.Before(cutoff)
			bucket.mu.Unlock()
			if idle {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

var (
	apiLimiter  *RateLimiter
	authLimiter *RateLimiter
	limiterOnce sync.Once
)

func initLimiters() {
	limiterOnce.Do(func() {
		apiLimiter = NewRateLimiter(envInt("RATE_LIMIT_RPM", 120))
		authLimiter = NewRateLimiter(envInt("AUTH_RATE_LIMIT_RPM", 10))
	})
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// FiberRateLimitMiddleware limits all API traffic per client IP.
func FiberRateLimitMiddleware() fiber.Handler {
	initLimiters()
	return func(c *fiber.Ctx) error {
		if !apiLimiter.Allow(c.IP()) {
			return c.Status(429).JSON(fiber.Map{"error": "Too many requests"})
		}
		return c.Next()
	}
}

// FiberAuthRateLimitMiddleware applies the stricter auth-endpoint limit.
func FiberAuthRateLimitMiddleware() fiber.Handler {
	initLimiters()
	return func(c *fiber.Ctx) error {
		if !authLimiter.Allow(c.IP()) {
			return c.Status(429).JSON(fiber.Map{"error": "Too many login attempts. Try again later."})
		}
		return c.Next()
	}
}
