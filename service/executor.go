package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smallnest/lionago/core"
	"github.com/smallnest/lionago/log"
)

// DefaultQueueCapacity bounds the executor queue when the config leaves
// it unset.
const DefaultQueueCapacity = 100

// ExecutorConfig configures a rate-limited call executor.
type ExecutorConfig struct {
	// QueueCapacity bounds the pending-call queue.
	QueueCapacity int
	// Retry is applied to calls that carry no config of their own.
	Retry RetryConfig
}

// Executor serializes admission of queued API calls through a rate
// limiter. A single dispatcher goroutine dequeues calls in arrival
// order and waits for capacity, so admission is FIFO-fair; admitted
// calls then run concurrently.
type Executor struct {
	limiter *RateLimiter
	tracker *StatusTracker
	retry   RetryConfig

	queue chan *APICall
	calls *core.Pile[*APICall]

	startOnce sync.Once
	stop      chan struct{}
	dispDone  chan struct{}
	inFlight  sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewExecutor creates an executor on top of the given limiter.
func NewExecutor(limiter *RateLimiter, cfg ExecutorConfig) *Executor {
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = DefaultQueueCapacity
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry = DefaultRetryConfig()
	}
	return &Executor{
		limiter:  limiter,
		tracker:  &StatusTracker{},
		retry:    cfg.Retry,
		queue:    make(chan *APICall, cfg.QueueCapacity),
		calls:    core.NewPile[*APICall](),
		stop:     make(chan struct{}),
		dispDone: make(chan struct{}),
	}
}

// Start launches the dispatcher. ctx bounds the lifetime of all queued
// and in-flight work. Idempotent.
func (e *Executor) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.limiter.Start()
		go e.dispatch(ctx)
	})
}

// Submit enqueues a call, blocking while the queue is full. The call is
// tracked in the executor's pile for later inspection.
func (e *Executor) Submit(ctx context.Context, call *APICall) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrExecutorStopped
	}
	e.mu.Unlock()

	e.calls.Include(call)
	select {
	case e.queue <- call:
		return nil
	case <-e.stop:
		e.calls.Exclude(call.ID)
		return ErrExecutorStopped
	case <-ctx.Done():
		e.calls.Exclude(call.ID)
		return ctx.Err()
	}
}

// TrySubmit enqueues a call without blocking, returning ErrQueueFull
// when no slot is free.
func (e *Executor) TrySubmit(call *APICall) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrExecutorStopped
	}
	e.mu.Unlock()

	e.calls.Include(call)
	select {
	case e.queue <- call:
		return nil
	default:
		e.calls.Exclude(call.ID)
		return ErrQueueFull
	}
}

// Stop shuts the executor down: no new submissions, queued calls are
// cancelled, in-flight calls are waited for, and the limiter's
// replenisher is stopped.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	close(e.stop)
	<-e.dispDone
	e.inFlight.Wait()
	e.limiter.Stop()
}

// Tracker returns the executor's status counters.
func (e *Executor) Tracker() *StatusTracker {
	return e.tracker
}

// Calls returns the pile of every call ever submitted.
func (e *Executor) Calls() *core.Pile[*APICall] {
	return e.calls
}

// CompletedCalls returns the calls that finished successfully.
func (e *Executor) CompletedCalls() []*APICall {
	return e.callsWithStatus(core.StatusCompleted)
}

// FailedCalls returns the calls that finished with an error.
func (e *Executor) FailedCalls() []*APICall {
	return e.callsWithStatus(core.StatusFailed)
}

func (e *Executor) callsWithStatus(status core.EventStatus) []*APICall {
	var out []*APICall
	for _, call := range e.calls.Values() {
		if call.Status() == status {
			out = append(out, call)
		}
	}
	return out
}

// dispatch dequeues calls in FIFO order and admits them through the
// limiter before handing them to worker goroutines.
func (e *Executor) dispatch(ctx context.Context) {
	defer close(e.dispDone)

	for {
		select {
		case <-e.stop:
			e.drainQueue()
			return
		case <-ctx.Done():
			e.drainQueue()
			return
		case call := <-e.queue:
			if err := e.limiter.WaitPermission(ctx, call.RequiredTokens); err != nil {
				e.tracker.OnStart()
				call.MarkFailed(err, 0)
				e.tracker.OnFailure(err)
				call.settle(nil, err)
				continue
			}
			e.inFlight.Add(1)
			go e.run(ctx, call)
		}
	}
}

// drainQueue cancels every call still waiting in the queue.
func (e *Executor) drainQueue() {
	for {
		select {
		case call := <-e.queue:
			call.SetStatus(core.StatusCancelled)
			call.settle(nil, ErrExecutorStopped)
		default:
			return
		}
	}
}

// run performs one admitted call with retries and records the outcome.
func (e *Executor) run(ctx context.Context, call *APICall) {
	defer e.inFlight.Done()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("api call %s panicked: %v", call.ID, r)
			log.Error("%v", err)
			call.MarkFailed(err, 0)
			e.tracker.OnFailure(err)
			call.settle(nil, err)
		}
	}()

	retry := e.retry
	if call.Retry != nil {
		retry = *call.Retry
	}

	e.tracker.OnStart()
	call.SetStatus(core.StatusProcessing)

	start := time.Now()
	result, err := CallWithRetry(ctx, retry, call.invoke)
	took := time.Since(start)

	if err != nil {
		call.MarkFailed(err, took)
		e.tracker.OnFailure(err)
		log.Warn("api call %s to %s failed after %v: %v", call.ID, call.Endpoint, took, err)
	} else {
		call.MarkCompleted(result, took)
		e.tracker.OnSuccess()
		log.Debug("api call %s to %s completed in %v", call.ID, call.Endpoint, took)
	}
	call.settle(result, err)
}
