// Package openai implements the service interfaces on top of the
// OpenAI API, using github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"errors"
	"net/http"
	"os"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
)

// ErrNoAPIKey is returned when neither WithAPIKey nor OPENAI_API_KEY
// provides a key.
var ErrNoAPIKey = errors.New("openai: API key not set")

const (
	defaultModel          = goopenai.GPT4oMini
	defaultEmbeddingModel = string(goopenai.SmallEmbedding3)
)

// Service calls the OpenAI chat completion and embeddings endpoints.
type Service struct {
	client         *goopenai.Client
	model          string
	embeddingModel string
}

// Option configures the service.
type Option func(*options)

type options struct {
	apiKey         string
	baseURL        string
	model          string
	embeddingModel string
	httpClient     *http.Client
}

// WithAPIKey sets the API key, overriding OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL points the client at a different API base, e.g. a proxy
// or a compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithModel sets the default chat model.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithEmbeddingModel sets the default embedding model.
func WithEmbeddingModel(model string) Option {
	return func(o *options) { o.embeddingModel = model }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// New creates an OpenAI-backed service. The API key is read from
// OPENAI_API_KEY unless WithAPIKey is given.
func New(opts ...Option) (*Service, error) {
	o := &options{
		apiKey:         os.Getenv("OPENAI_API_KEY"),
		model:          defaultModel,
		embeddingModel: defaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	cfg := goopenai.DefaultConfig(o.apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}

	return &Service{
		client:         goopenai.NewClientWithConfig(cfg),
		model:          o.model,
		embeddingModel: o.embeddingModel,
	}, nil
}

// Name implements service.ChatService.
func (s *Service) Name() string { return "openai" }

// Chat implements service.ChatService.
func (s *Service) Chat(ctx context.Context, req *service.ChatRequest) (*service.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = s.model
	}

	ccr := goopenai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.Temperature > 0 {
		ccr.Temperature = float32(req.Temperature)
	}
	if req.MaxTokens > 0 {
		ccr.MaxTokens = req.MaxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, service.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	return &service.ChatResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: service.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Embed implements service.EmbeddingService.
func (s *Service) Embed(ctx context.Context, req *service.EmbeddingRequest) (*service.EmbeddingResponse, error) {
	model := req.Model
	if model == "" {
		model = s.embeddingModel
	}

	resp, err := s.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: req.Input,
		Model: goopenai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, mapError(err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}
	return &service.EmbeddingResponse{
		Embeddings: embeddings,
		Model:      string(resp.Model),
		Usage: service.Usage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func toOpenAIMessages(msgs []*message.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := goopenai.ChatMessageRoleUser
		switch m.Role {
		case message.RoleSystem:
			role = goopenai.ChatMessageRoleSystem
		case message.RoleAssistant:
			role = goopenai.ChatMessageRoleAssistant
		case message.RoleTool:
			// Collapsed into user content; tool-call plumbing is handled
			// at the session layer.
			role = goopenai.ChatMessageRoleUser
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// mapError converts SDK errors into the service error taxonomy.
func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		code := ""
		if apiErr.Type != "" {
			code = apiErr.Type
		}
		return &service.APIError{
			StatusCode:  apiErr.HTTPStatusCode,
			Code:        code,
			Message:     apiErr.Message,
			RateLimited: apiErr.HTTPStatusCode == http.StatusTooManyRequests,
		}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &service.APIError{
			StatusCode:  reqErr.HTTPStatusCode,
			Message:     reqErr.Error(),
			RateLimited: reqErr.HTTPStatusCode == http.StatusTooManyRequests,
		}
	}
	return err
}

var (
	_ service.ChatService      = (*Service)(nil)
	_ service.EmbeddingService = (*Service)(nil)
)
