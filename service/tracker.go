package service

import (
	"errors"
	"sync/atomic"
)

// StatusTracker keeps counters for the calls flowing through an
// executor. All methods are safe for concurrent use.
type StatusTracker struct {
	started         atomic.Int64
	inProgress      atomic.Int64
	succeeded       atomic.Int64
	failed          atomic.Int64
	rateLimitErrors atomic.Int64
	apiErrors       atomic.Int64
	otherErrors     atomic.Int64
}

// TrackerSnapshot is a point-in-time view of the counters.
type TrackerSnapshot struct {
	Started         int64
	InProgress      int64
	Succeeded       int64
	Failed          int64
	RateLimitErrors int64
	APIErrors       int64
	OtherErrors     int64
}

// OnStart records a call entering execution.
func (t *StatusTracker) OnStart() {
	t.started.Add(1)
	t.inProgress.Add(1)
}

// OnSuccess records a call finishing successfully.
func (t *StatusTracker) OnSuccess() {
	t.inProgress.Add(-1)
	t.succeeded.Add(1)
}

// OnFailure records a failed call and classifies the error.
func (t *StatusTracker) OnFailure(err error) {
	t.inProgress.Add(-1)
	t.failed.Add(1)

	var apiErr *APIError
	switch {
	case IsRateLimit(err):
		t.rateLimitErrors.Add(1)
	case errors.As(err, &apiErr):
		t.apiErrors.Add(1)
	default:
		t.otherErrors.Add(1)
	}
}

// Snapshot returns the current counter values.
func (t *StatusTracker) Snapshot() TrackerSnapshot {
	return TrackerSnapshot{
		Started:         t.started.Load(),
		InProgress:      t.inProgress.Load(),
		Succeeded:       t.succeeded.Load(),
		Failed:          t.failed.Load(),
		RateLimitErrors: t.rateLimitErrors.Load(),
		APIErrors:       t.apiErrors.Load(),
		OtherErrors:     t.otherErrors.Load(),
	}
}
