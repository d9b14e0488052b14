// Package langchain adapts any github.com/tmc/langchaingo llms.Model
// to service.ChatService, so the rate-limited executor can front
// every backend langchaingo supports.
package langchain

import (
	"context"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
)

// Service wraps an llms.Model.
type Service struct {
	model llms.Model
	name  string
}

// Option configures the service.
type Option func(*Service)

// WithName overrides the reported service name.
func WithName(name string) Option {
	return func(s *Service) { s.name = name }
}

// New wraps model as a chat service.
func New(model llms.Model, opts ...Option) *Service {
	s := &Service{model: model, name: "langchain"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements service.ChatService.
func (s *Service) Name() string { return s.name }

// Chat implements service.ChatService.
func (s *Service) Chat(ctx context.Context, req *service.ChatRequest) (*service.ChatResponse, error) {
	var callOpts []llms.CallOption
	if req.Model != "" {
		callOpts = append(callOpts, llms.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := s.model.GenerateContent(ctx, message.ToLangchain(req.Messages), callOpts...)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, service.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	out := &service.ChatResponse{
		Content:      choice.Content,
		Model:        req.Model,
		FinishReason: choice.StopReason,
	}
	if info := choice.GenerationInfo; info != nil {
		if v, ok := info["PromptTokens"].(int); ok {
			out.Usage.PromptTokens = v
		}
		if v, ok := info["CompletionTokens"].(int); ok {
			out.Usage.CompletionTokens = v
		}
		if v, ok := info["TotalTokens"].(int); ok {
			out.Usage.TotalTokens = v
		}
	}
	return out, nil
}

var _ service.ChatService = (*Service)(nil)
