package service

import (
	"context"

	"github.com/smallnest/lionago/core"
)

// InvokeFunc performs the actual provider call once the executor admits
// it. It must honor ctx cancellation.
type InvokeFunc func(ctx context.Context) (any, error)

// APICall is a queued call to a provider endpoint: what to send, how
// many tokens it is expected to spend, and how to retry it.
type APICall struct {
	core.Event

	// Endpoint names the target (e.g. "chat/completions").
	Endpoint string
	// Payload is the request body, kept for inspection and logging.
	Payload any
	// RequiredTokens is the admission-control token estimate.
	RequiredTokens int
	// Retry overrides the executor's default retry config when non-nil.
	Retry *RetryConfig

	invoke InvokeFunc

	result any
	err    error
	done   chan struct{}
}

// NewAPICall creates a pending call.
func NewAPICall(endpoint string, payload any, requiredTokens int, invoke InvokeFunc) *APICall {
	return &APICall{
		Event:          core.NewEvent(),
		Endpoint:       endpoint,
		Payload:        payload,
		RequiredTokens: requiredTokens,
		invoke:         invoke,
		done:           make(chan struct{}),
	}
}

// Wait blocks until the call settles or ctx ends, then returns its
// outcome.
func (c *APICall) Wait(ctx context.Context) (any, error) {
	select {
	case <-c.done:
		return c.result, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking. Valid once Wait returns
// or the status is terminal.
func (c *APICall) Result() (any, error) {
	return c.result, c.err
}

func (c *APICall) settle(result any, err error) {
	c.result = result
	c.err = err
	close(c.done)
}
