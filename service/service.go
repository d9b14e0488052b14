package service

import (
	"context"

	"github.com/smallnest/lionago/message"
)

// Endpoint names used by RateLimitedService.
const (
	EndpointChat       = "chat/completions"
	EndpointEmbeddings = "embeddings"
)

// Usage is the token accounting reported by a provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatRequest is a provider-neutral chat completion request.
type ChatRequest struct {
	// Model is the provider model name; empty uses the provider default.
	Model string
	// Messages is the transcript to send, oldest first.
	Messages []*message.Message
	// Temperature, when positive, overrides the provider default.
	Temperature float64
	// MaxTokens, when positive, caps the completion length.
	MaxTokens int
}

// ChatResponse is a provider-neutral chat completion result.
type ChatResponse struct {
	// Content is the assistant's reply text.
	Content string
	// Model is the model that produced the reply.
	Model string
	// FinishReason is the provider's stop reason, when reported.
	FinishReason string
	// Usage is token accounting, when reported.
	Usage Usage
}

// EmbeddingRequest is a provider-neutral embedding request.
type EmbeddingRequest struct {
	Model string
	Input []string
}

// EmbeddingResponse is a provider-neutral embedding result.
type EmbeddingResponse struct {
	Embeddings [][]float32
	Model      string
	Usage      Usage
}

// ChatService generates chat completions. Providers implement it.
type ChatService interface {
	// Name identifies the provider (e.g. "openai").
	Name() string
	// Chat performs one completion call.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// EmbeddingService generates embeddings. Providers that support it
// implement this in addition to ChatService.
type EmbeddingService interface {
	// Embed performs one embedding call.
	Embed(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error)
}
