package ai

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"lingovibe/backend/internal/logger"
)

// DefaultRateLimit is the default QPS limit.
const DefaultRateLimit = 10

// throttleLogThreshold is the wait after which a throttled call is logged.
const throttleLogThreshold = 50 * time.Millisecond

// RateLimiter is shared by every gateway operation so text, image and
// speech calls draw from one budget.
type RateLimiter struct {
	limiter *rate.Limiter
	mu      sync.RWMutex
}

// NewRateLimiter creates a new rate limiter with the given QPS.
func NewRateLimiter(qps int) *RateLimiter {
	if qps <= 0 {
		qps = DefaultRateLimit
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), qps), // burst = qps
	}
}

// Wait blocks until a token is available or ctx is done. op names the
// gateway operation for the throttle log.
func (r *RateLimiter) Wait(ctx context.Context, op string) error {
	r.mu.RLock()
	limiter := r.limiter
	r.mu.RUnlock()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited >= throttleLogThreshold {
		logger.Debug("ai call throttled", "module", "ai", "action", "wait", "resource", op, "result", "ok", "waited_ms", waited.Milliseconds())
	}
	return nil
}

// SetLimit updates the rate limit dynamically.
func (r *RateLimiter) SetLimit(qps int) {
	if qps <= 0 {
		qps = DefaultRateLimit
	}
	r.mu.Lock()
	r.limiter.SetLimit(rate.Limit(qps))
	r.limiter.SetBurst(qps)
	r.mu.Unlock()
	logger.Info("ai rate limit updated", "module", "ai", "action", "update", "resource", "ai", "result", "ok", "qps", qps)
}

// GetLimit returns the current rate limit.
func (r *RateLimiter) GetLimit() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int(r.limiter.Limit())
}
