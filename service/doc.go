// Package service implements the rate-limited LLM service layer.
//
// The building blocks:
//
//   - RateLimiter: an interval token bucket. A background replenisher
//     resets request and token capacity to the configured maxima every
//     interval; admission is an atomic check-and-decrement of both
//     counters under a mutex.
//   - APICall: a queued unit of work (endpoint, payload, token estimate,
//     retry config) with a tracked lifecycle.
//   - Executor: a bounded FIFO queue with a single dispatcher goroutine
//     that admits calls in arrival order and runs them concurrently once
//     admitted.
//   - StatusTracker: atomic counters for started/succeeded/failed calls
//     and error classes.
//   - RateLimitedService: wires a provider (ChatService, optionally
//     EmbeddingService) behind per-endpoint limiters and executors.
//
// Provider errors are surfaced as *APIError; rate-limit rejections are
// retried with a fixed extra sleep on top of exponential backoff.
package service
