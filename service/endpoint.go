package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallnest/lionago/log"
)

// EndpointConfig is the budget and queue configuration for a single
// provider endpoint.
type EndpointConfig struct {
	// Name is the endpoint path, e.g. EndpointChat.
	Name string
	// Limits is the rate limit budget for this endpoint.
	Limits RateLimiterConfig
	// QueueCapacity bounds the endpoint's pending-call queue.
	QueueCapacity int
	// Retry is the default retry behavior for calls to this endpoint.
	Retry RetryConfig
}

// DefaultEndpointConfig returns the standard configuration for an
// endpoint name.
func DefaultEndpointConfig(name string) EndpointConfig {
	return EndpointConfig{
		Name:          name,
		Limits:        DefaultRateLimiterConfig(),
		QueueCapacity: DefaultQueueCapacity,
		Retry:         DefaultRetryConfig(),
	}
}

// Endpoint is one rate-limited provider endpoint: its limiter and the
// executor that serializes admission.
type Endpoint struct {
	Name     string
	Limiter  *RateLimiter
	Executor *Executor
}

// newEndpoint builds and starts an endpoint from its config.
func newEndpoint(ctx context.Context, cfg EndpointConfig) (*Endpoint, error) {
	limiter, err := NewRateLimiter(cfg.Limits)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: %w", cfg.Name, err)
	}
	exec := NewExecutor(limiter, ExecutorConfig{
		QueueCapacity: cfg.QueueCapacity,
		Retry:         cfg.Retry,
	})
	exec.Start(ctx)
	return &Endpoint{Name: cfg.Name, Limiter: limiter, Executor: exec}, nil
}

// RateLimitedService fronts a provider with per-endpoint rate limiting
// and queued execution. It implements ChatService and, when the
// provider supports it, EmbeddingService.
type RateLimitedService struct {
	chat  ChatService
	embed EmbeddingService

	estimator *TokenEstimator

	mu        sync.RWMutex
	endpoints map[string]*Endpoint
}

// RateLimitedOption configures a RateLimitedService.
type RateLimitedOption func(*RateLimitedService)

// WithEmbeddings enables the embeddings endpoint backed by the given
// service.
func WithEmbeddings(embed EmbeddingService) RateLimitedOption {
	return func(r *RateLimitedService) {
		r.embed = embed
	}
}

// WithEstimator replaces the default token estimator.
func WithEstimator(estimator *TokenEstimator) RateLimitedOption {
	return func(r *RateLimitedService) {
		r.estimator = estimator
	}
}

// NewRateLimitedService wraps a provider. Endpoints must be initialized
// with InitEndpoint before use.
func NewRateLimitedService(chat ChatService, opts ...RateLimitedOption) *RateLimitedService {
	r := &RateLimitedService{
		chat:      chat,
		estimator: NewTokenEstimator(""),
		endpoints: make(map[string]*Endpoint),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the underlying provider's name.
func (r *RateLimitedService) Name() string {
	return r.chat.Name()
}

// InitEndpoint creates and starts the limiter and executor for one
// endpoint. Re-initializing an endpoint stops the previous one.
func (r *RateLimitedService) InitEndpoint(ctx context.Context, cfg EndpointConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("endpoint name required")
	}
	ep, err := newEndpoint(ctx, cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	old := r.endpoints[cfg.Name]
	r.endpoints[cfg.Name] = ep
	r.mu.Unlock()

	if old != nil {
		old.Executor.Stop()
	}
	log.Info("endpoint %s initialized: %d req, %d tokens per %v",
		cfg.Name, cfg.Limits.MaxRequests, cfg.Limits.MaxTokens, cfg.Limits.Interval)
	return nil
}

// Endpoint returns the named endpoint, or nil if uninitialized.
func (r *RateLimitedService) Endpoint(name string) *Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.endpoints[name]
}

// Chat submits a chat completion through the chat endpoint's queue and
// waits for its outcome.
func (r *RateLimitedService) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	ep := r.Endpoint(EndpointChat)
	if ep == nil {
		return nil, fmt.Errorf("%w: %s", ErrEndpointUnknown, EndpointChat)
	}

	required := r.estimator.EstimateChat(req)
	call := NewAPICall(EndpointChat, req, required, func(ctx context.Context) (any, error) {
		return r.chat.Chat(ctx, req)
	})

	if err := ep.Executor.Submit(ctx, call); err != nil {
		return nil, err
	}
	result, err := call.Wait(ctx)
	if err != nil {
		return nil, err
	}
	resp, ok := result.(*ChatResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected chat result type %T", result)
	}
	return resp, nil
}

// Embed submits an embedding request through the embeddings endpoint's
// queue and waits for its outcome.
func (r *RateLimitedService) Embed(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error) {
	if r.embed == nil {
		return nil, fmt.Errorf("provider %s does not support embeddings", r.Name())
	}
	ep := r.Endpoint(EndpointEmbeddings)
	if ep == nil {
		return nil, fmt.Errorf("%w: %s", ErrEndpointUnknown, EndpointEmbeddings)
	}

	required := r.estimator.EstimateEmbedding(req)
	call := NewAPICall(EndpointEmbeddings, req, required, func(ctx context.Context) (any, error) {
		return r.embed.Embed(ctx, req)
	})

	if err := ep.Executor.Submit(ctx, call); err != nil {
		return nil, err
	}
	result, err := call.Wait(ctx)
	if err != nil {
		return nil, err
	}
	resp, ok := result.(*EmbeddingResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected embedding result type %T", result)
	}
	return resp, nil
}

// Shutdown stops every endpoint's executor and limiter.
func (r *RateLimitedService) Shutdown() {
	r.mu.Lock()
	endpoints := make([]*Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		endpoints = append(endpoints, ep)
	}
	r.endpoints = make(map[string]*Endpoint)
	r.mu.Unlock()

	for _, ep := range endpoints {
		ep.Executor.Stop()
	}
}

var _ ChatService = (*RateLimitedService)(nil)
