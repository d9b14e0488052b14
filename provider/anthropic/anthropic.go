// Package anthropic implements service.ChatService on top of the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
)

// Service calls the Anthropic Messages API.
type Service struct {
	client *client
	model  string
}

// Option configures the service.
type Option func(*options)

type options struct {
	apiKey     string
	baseURL    string
	version    string
	model      string
	httpClient *http.Client
}

// WithAPIKey sets the API key, overriding ANTHROPIC_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithVersion sets the Anthropic-Version header.
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// New creates an Anthropic-backed service. The API key is read from
// ANTHROPIC_API_KEY unless WithAPIKey is given.
func New(opts ...Option) (*Service, error) {
	o := &options{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		baseURL:    defaultBaseURL,
		version:    defaultVersion,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	return &Service{
		client: &client{
			apiKey:     o.apiKey,
			baseURL:    strings.TrimSuffix(o.baseURL, "/"),
			version:    o.version,
			httpClient: o.httpClient,
		},
		model: o.model,
	}, nil
}

// Name implements service.ChatService.
func (s *Service) Name() string { return "anthropic" }

// Chat implements service.ChatService.
func (s *Service) Chat(ctx context.Context, req *service.ChatRequest) (*service.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = s.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	mr := &messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
	}
	if req.Temperature > 0 {
		mr.Temperature = req.Temperature
	}

	for _, m := range req.Messages {
		switch m.Role {
		case message.RoleSystem:
			// Later system messages win; the API takes a single slot.
			mr.System = m.Content
		case message.RoleAssistant:
			mr.Messages = append(mr.Messages, turnMessage{Role: "assistant", Content: m.Content})
		default:
			mr.Messages = append(mr.Messages, turnMessage{Role: "user", Content: m.Content})
		}
	}

	resp, err := s.client.createMessage(ctx, mr)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, service.ErrEmptyResponse
	}

	return &service.ChatResponse{
		Content:      text.String(),
		Model:        resp.Model,
		FinishReason: resp.StopReason,
		Usage: service.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

var _ service.ChatService = (*Service)(nil)
