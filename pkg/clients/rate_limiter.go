// Package clients provides rate limiting and HTTP session primitives
package clients

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tributary/pkg/logger"
)

// RateLimiter defines the interface for rate limiting implementations.
type RateLimiter interface {
	// Wait blocks until a call is admitted
	Wait(ctx context.Context) error

	// Stats returns rate limiter statistics
	Stats() RateLimiterStats
}

// RateLimiterStats provides statistics about limiter behavior for
// monitoring and debugging.
type RateLimiterStats struct {
	Quota         int           `json:"quota"`
	Window        time.Duration `json:"window"`
	Admitted      int64         `json:"admitted"`
	Delayed       int64         `json:"delayed"`
	TotalWaitTime time.Duration `json:"total_wait_time"`
}

// SlidingWindowLimiter admits at most quota calls within any trailing
// window. It tracks the timestamp of every admitted call and prunes entries
// as they age out, so the quota is evaluated over a rolling exact window
// rather than a token-refill approximation.
//
// The limiter carries no synchronization: it belongs to exactly one
// connector instance and one extraction at a time. Concurrent callers must
// each own their own limiter.
type SlidingWindowLimiter struct {
	quota  int
	window time.Duration

	// timestamps of admitted calls, oldest first
	calls []time.Time

	admitted  int64
	delayed   int64
	totalWait time.Duration

	logger *zap.Logger
	now    func() time.Time
}

// NewSlidingWindowLimiter creates a limiter admitting quota calls per window
func NewSlidingWindowLimiter(quota int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		quota:  quota,
		window: window,
		calls:  make([]time.Time, 0, quota),
		logger: logger.With(zap.String("component", "rate_limiter")),
		now:    time.Now,
	}
}

// Wait blocks until a call is admitted and records the admission. It has no
// failure mode of its own; the only error it can return is ctx.Err() when
// the context is cancelled mid-sleep.
func (sw *SlidingWindowLimiter) Wait(ctx context.Context) error {
	now := sw.now()
	sw.prune(now)

	if len(sw.calls) >= sw.quota {
		wait := sw.window - now.Sub(sw.calls[0])
		if wait > 0 {
			sw.delayed++
			sw.totalWait += wait
			sw.logger.Debug("rate limit reached",
				zap.Duration("wait", wait),
				zap.Int("quota", sw.quota),
				zap.Duration("window", sw.window))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		// The window may already have elapsed by the time we rechecked;
		// either way the oldest entries are stale now.
		now = sw.now()
		sw.prune(now)
	}

	sw.calls = append(sw.calls, now)
	sw.admitted++
	return nil
}

// prune drops all timestamps older than now minus the window
func (sw *SlidingWindowLimiter) prune(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(sw.calls) && !sw.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		sw.calls = append(sw.calls[:0], sw.calls[i:]...)
	}
}

// Stats returns rate limiter statistics
func (sw *SlidingWindowLimiter) Stats() RateLimiterStats {
	return RateLimiterStats{
		Quota:         sw.quota,
		Window:        sw.window,
		Admitted:      sw.admitted,
		Delayed:       sw.delayed,
		TotalWaitTime: sw.totalWait,
	}
}
