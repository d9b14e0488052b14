package core

import (
	"sync"
	"time"
)

// EventStatus is the lifecycle state of a queued unit of work.
type EventStatus string

const (
	// StatusPending means the event is queued and has not started.
	StatusPending EventStatus = "pending"
	// StatusProcessing means the event has been admitted and is running.
	StatusProcessing EventStatus = "processing"
	// StatusCompleted means the event finished successfully.
	StatusCompleted EventStatus = "completed"
	// StatusFailed means the event finished with an error.
	StatusFailed EventStatus = "failed"
	// StatusCancelled means the event was cancelled before completion.
	StatusCancelled EventStatus = "cancelled"
)

// Execution records the outcome of a single event run.
type Execution struct {
	// Duration is how long the invocation took.
	Duration time.Duration `json:"duration"`
	// Response is the successful result, if any.
	Response any `json:"response,omitempty"`
	// Error is the failure message, if any.
	Error string `json:"error,omitempty"`
	// FinishedAt is when the invocation ended.
	FinishedAt time.Time `json:"finished_at"`
}

// Event is a unit of queued work with a tracked lifecycle. It is the
// base for API calls handled by the service executor. Events are used
// by pointer; the zero status is StatusPending.
type Event struct {
	Element

	mu        sync.Mutex
	status    EventStatus
	execution Execution
}

// NewEvent creates a pending event with a fresh identity.
func NewEvent() Event {
	return Event{Element: NewElement(), status: StatusPending}
}

// Status returns the current lifecycle state.
func (e *Event) Status() EventStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == "" {
		return StatusPending
	}
	return e.status
}

// SetStatus transitions the event to the given state.
func (e *Event) SetStatus(s EventStatus) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

// Execution returns a copy of the recorded outcome.
func (e *Event) Execution() Execution {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.execution
}

// MarkCompleted records a successful outcome.
func (e *Event) MarkCompleted(response any, took time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusCompleted
	e.execution = Execution{
		Duration:   took,
		Response:   response,
		FinishedAt: time.Now(),
	}
}

// MarkFailed records a failed outcome.
func (e *Event) MarkFailed(err error, took time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusFailed
	e.execution = Execution{
		Duration:   took,
		Error:      err.Error(),
		FinishedAt: time.Now(),
	}
}
