package service

import (
	"errors"
	"fmt"
)

var (
	// ErrTokensExceedCapacity is returned when a call requires more
	// tokens than the limiter can ever hold; it can never be admitted.
	ErrTokensExceedCapacity = errors.New("required tokens exceed configured capacity")

	// ErrExecutorStopped is returned when submitting to a stopped executor.
	ErrExecutorStopped = errors.New("executor stopped")

	// ErrQueueFull is returned by TrySubmit when the queue is at capacity.
	ErrQueueFull = errors.New("call queue full")

	// ErrEndpointUnknown is returned when calling an endpoint that was
	// never initialized on the service.
	ErrEndpointUnknown = errors.New("endpoint not initialized")

	// ErrEmptyResponse is returned when a provider answers with no content.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError is an error reported by a provider, either as a non-2xx HTTP
// status or as an error object embedded in the response body.
type APIError struct {
	// StatusCode is the HTTP status, when known.
	StatusCode int
	// Code is the provider's error code or type, when present.
	Code string
	// Message is the provider's error message.
	Message string
	// RateLimited marks errors caused by provider-side rate limiting.
	RateLimited bool
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit reports whether err (or anything it wraps) is a
// provider-side rate limit rejection.
func IsRateLimit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited
}
