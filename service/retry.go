package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/smallnest/lionago/log"
)

// RetryConfig controls how a call is retried after transient failures.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// InitialDelay is the backoff before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
	// BackoffFactor multiplies the delay after each attempt.
	BackoffFactor float64
	// RateLimitDelay is the fixed extra sleep applied when the provider
	// reports a rate limit, on top of the regular backoff.
	RateLimitDelay time.Duration
	// Retryable decides whether an error is worth another attempt.
	// When nil, every error is retried.
	Retryable func(error) bool
}

// DefaultRetryConfig returns the retry behavior used by executors when
// a call carries no config of its own.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		BackoffFactor:  2.0,
		RateLimitDelay: 15 * time.Second,
	}
}

// CallWithRetry runs fn with bounded retries and exponential backoff
// plus jitter. Rate-limit rejections sleep the fixed RateLimitDelay
// before the backoff. Non-retryable errors are returned immediately.
func CallWithRetry(ctx context.Context, cfg RetryConfig, fn func(context.Context) (any, error)) (any, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if IsRateLimit(err) && cfg.RateLimitDelay > 0 {
			log.Warn("provider rate limit hit, sleeping %v before retry", cfg.RateLimitDelay)
			if err := sleepCtx(ctx, cfg.RateLimitDelay); err != nil {
				return nil, err
			}
		}

		wait := delay
		if wait > 0 {
			// ±25% jitter
			jitter := time.Duration(float64(wait) * 0.25 * (2*rand.Float64() - 1))
			wait += jitter
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}

		if cfg.BackoffFactor > 0 {
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		}
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return nil, fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
