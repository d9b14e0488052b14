package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallnest/lionago/log"
)

// Default rate limit budget, matching common provider tier defaults.
const (
	DefaultMaxRequests  = 1000
	DefaultMaxTokens    = 100000
	DefaultInterval     = time.Minute
	DefaultPollInterval = 100 * time.Millisecond
)

// RateLimiterConfig is the budget for one endpoint: how many requests
// and tokens may be spent per interval.
type RateLimiterConfig struct {
	// MaxRequests is the request capacity per interval.
	MaxRequests int
	// MaxTokens is the token capacity per interval.
	MaxTokens int
	// Interval is the replenishment period.
	Interval time.Duration
	// PollInterval is how long WaitPermission sleeps between denied
	// admission attempts.
	PollInterval time.Duration
}

// DefaultRateLimiterConfig returns the default budget.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxRequests:  DefaultMaxRequests,
		MaxTokens:    DefaultMaxTokens,
		Interval:     DefaultInterval,
		PollInterval: DefaultPollInterval,
	}
}

func (c *RateLimiterConfig) validate() error {
	if c.MaxRequests < 1 {
		return errors.New("max requests must be at least 1")
	}
	if c.MaxTokens < 1 {
		return errors.New("max tokens must be at least 1")
	}
	if c.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return nil
}

// RateLimiter is an interval token bucket. Available request and token
// capacity is decremented on admission and reset to the configured
// maxima every interval by a background replenisher.
type RateLimiter struct {
	cfg RateLimiterConfig

	mu                sync.Mutex
	availableRequests int
	availableTokens   int

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewRateLimiter creates a limiter with full capacity. Call Start to
// launch the replenisher.
func NewRateLimiter(cfg RateLimiterConfig) (*RateLimiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &RateLimiter{
		cfg:               cfg,
		availableRequests: cfg.MaxRequests,
		availableTokens:   cfg.MaxTokens,
		stop:              make(chan struct{}),
		done:              make(chan struct{}),
	}, nil
}

// Start launches the background replenisher. It is idempotent.
func (rl *RateLimiter) Start() {
	rl.startOnce.Do(func() {
		rl.started.Store(true)
		go rl.replenishLoop()
	})
}

// Stop signals the replenisher to exit and waits for it. It is safe to
// call concurrently, repeatedly, or before Start.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
	if rl.started.Load() {
		<-rl.done
	}
}

// replenishLoop resets both capacities to their maxima every interval.
// Panics are logged, never propagated.
func (rl *RateLimiter) replenishLoop() {
	defer close(rl.done)
	defer func() {
		if r := recover(); r != nil {
			log.Error("rate limit replenisher panicked: %v", r)
		}
	}()

	ticker := time.NewTicker(rl.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			log.Debug("rate limit replenisher stopped")
			return
		case <-ticker.C:
			rl.mu.Lock()
			rl.availableRequests = rl.cfg.MaxRequests
			rl.availableTokens = rl.cfg.MaxTokens
			rl.mu.Unlock()
		}
	}
}

// RequestPermission atomically checks and decrements capacity. The call
// is admitted only when at least one request and requiredTokens tokens
// are available; on admission one request and requiredTokens tokens are
// consumed. Capacity never goes negative.
func (rl *RateLimiter) RequestPermission(requiredTokens int) bool {
	if requiredTokens < 0 {
		requiredTokens = 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.availableRequests < 1 || rl.availableTokens < 1 {
		return false
	}
	if rl.availableTokens < requiredTokens {
		return false
	}
	rl.availableRequests--
	rl.availableTokens -= requiredTokens
	return true
}

// WaitPermission polls RequestPermission until admitted or the context
// ends. A call requiring more tokens than MaxTokens is rejected
// immediately with ErrTokensExceedCapacity.
func (rl *RateLimiter) WaitPermission(ctx context.Context, requiredTokens int) error {
	if requiredTokens > rl.cfg.MaxTokens {
		return ErrTokensExceedCapacity
	}

	for {
		if rl.RequestPermission(requiredTokens) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.cfg.PollInterval):
		}
	}
}

// Available returns the current request and token capacity.
func (rl *RateLimiter) Available() (requests, tokens int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.availableRequests, rl.availableTokens
}

// Config returns the limiter's budget.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.cfg
}
