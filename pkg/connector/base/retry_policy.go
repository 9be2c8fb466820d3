package base

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy defines retry behavior for a single request: up to MaxAttempts
// total attempts with exponential backoff between them. The policy is a
// first-class value so it can be inspected and tested independent of any
// HTTP call.
type RetryPolicy struct {
	MaxAttempts     int
	MinDelay        time.Duration
	MaxDelay        time.Duration
	Multiplier      float64
	RandomizeFactor float64
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, delays growing
// as Multiplier * 2^(attempt-1) seconds clamped to [2s, 10s], no jitter.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		MinDelay:    2 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  1.0,
	}
}

// NewRetryPolicy creates a policy with the default backoff and the given
// attempt cap.
func NewRetryPolicy(maxAttempts int) *RetryPolicy {
	policy := DefaultRetryPolicy()
	policy.MaxAttempts = maxAttempts
	return policy
}

// Execute runs fn up to MaxAttempts times, sleeping Delay(attempt) between
// attempts. The error from the final attempt is surfaced, not swallowed.
func (rp *RetryPolicy) Execute(ctx context.Context, fn func() error) error {
	return rp.ExecuteWithCondition(ctx, fn, func(error) bool { return true })
}

// ExecuteWithCondition runs fn with retries only while shouldRetry accepts
// the error. A rejected error is returned immediately.
func (rp *RetryPolicy) ExecuteWithCondition(ctx context.Context, fn func() error, shouldRetry func(error) bool) error {
	var lastErr error

	for attempt := 1; attempt <= rp.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !shouldRetry(err) {
			return err
		}

		if attempt == rp.MaxAttempts {
			break
		}

		timer := time.NewTimer(rp.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", rp.MaxAttempts, lastErr)
}

// Delay returns the backoff delay after the given attempt (1-based):
// Multiplier * 2^(attempt-1) seconds, clamped to [MinDelay, MaxDelay].
func (rp *RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := rp.Multiplier * math.Pow(2, float64(attempt-1)) * float64(time.Second)

	if delay < float64(rp.MinDelay) {
		delay = float64(rp.MinDelay)
	}
	if delay > float64(rp.MaxDelay) {
		delay = float64(rp.MaxDelay)
	}

	if rp.RandomizeFactor > 0 {
		delta := delay * rp.RandomizeFactor
		delay = delay - delta + rand.Float64()*2*delta
	}

	return time.Duration(delay)
}

// Clone creates a copy of the retry policy
func (rp *RetryPolicy) Clone() *RetryPolicy {
	clone := *rp
	return &clone
}
