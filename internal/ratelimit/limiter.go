package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/ZanzyTHEbar/aeo-meter/internal/monitoring"
)

// Config holds rate limiter settings.
type Config struct {
	// IPLimitPerMin bounds all requests from one client IP.
	IPLimitPerMin int
	// AnalyzeLimitPerMin bounds POST /analyze per IP; analyses are the
	// expensive operation.
	AnalyzeLimitPerMin int
	BurstMultiplier    int
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:      60,
		AnalyzeLimitPerMin: 10,
		BurstMultiplier:    2,
	}
}

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter provides distributed limiting via Redis with an in-memory
// token bucket fallback per key.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*rate.Limiter
	fallbackMu       sync.RWMutex
}

// NewRateLimiter creates a limiter backed by redisClient when it is enabled.
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*rate.Limiter),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
	}

	go rl.cleanupFallbackLimiters()
	return rl
}

// AllowIP checks the per-minute limit for a client IP.
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("ratelimit:ip:%s", ip)
	return rl.allow(ctx, key, rl.config.IPLimitPerMin, time.Minute)
}

// AllowAnalyze checks the per-minute analysis limit for a client IP.
func (rl *RateLimiter) AllowAnalyze(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("ratelimit:analyze:%s", ip)
	return rl.allow(ctx, key, rl.config.AnalyzeLimitPerMin, time.Minute)
}

func (rl *RateLimiter) allow(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	if rl.redisClient.IsEnabled() && rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key, limit, period)
		if err != nil {
			slog.Warn("redis rate limit check failed, using fallback", "key", key, "error", err)
			return rl.allowFallback(key, limit, period)
		}
		return result, nil
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key, limit, period)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit,
		Burst:  limit,
		Period: period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (rl *RateLimiter) allowFallback(key string, limit int, period time.Duration) (*Result, error) {
	rl.fallbackMu.Lock()
	limiter, exists := rl.fallbackLimiters[key]
	if !exists {
		rps := rate.Limit(float64(limit) / period.Seconds())
		burst := limit * rl.config.BurstMultiplier
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		rl.fallbackLimiters[key] = limiter
	}
	rl.fallbackMu.Unlock()

	allowed := limiter.Allow()

	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(period),
	}
	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
	}
	return result, nil
}

func (rl *RateLimiter) cleanupFallbackLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.fallbackMu.Lock()
		if len(rl.fallbackLimiters) > 1000 {
			slog.Info("resetting fallback rate limiters", "count", len(rl.fallbackLimiters))
			rl.fallbackLimiters = make(map[string]*rate.Limiter)
		}
		rl.fallbackMu.Unlock()
	}
}

// GetStats returns limiter state for the /metrics endpoint.
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMu.RLock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMu.RUnlock()

	return map[string]interface{}{
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"fallback_limiters": fallbackCount,
	}
}
