package service

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/smallnest/lionago/log"
)

// Token accounting constants for chat payloads. Every message carries a
// fixed framing overhead, and the reply is primed with the assistant
// role.
const (
	tokensPerMessage = 4
	tokensReplyPrime = 2

	// defaultCompletionTokens is assumed for the completion when the
	// request does not cap it.
	defaultCompletionTokens = 15
)

// TokenEstimator estimates how many tokens a payload will spend, for
// admission control. It uses the tiktoken encoding for the model when
// one is available and falls back to a bytes/4 heuristic otherwise.
type TokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenEstimator creates an estimator for the given model name.
func NewTokenEstimator(model string) *TokenEstimator {
	te := &TokenEstimator{}
	if model == "" {
		return te
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Debug("no tiktoken encoding for model %q, using heuristic: %v", model, err)
		return te
	}
	te.encoding = enc
	return te
}

// EstimateText returns the token count of a string.
func (te *TokenEstimator) EstimateText(text string) int {
	if text == "" {
		return 0
	}
	if te.encoding != nil {
		return len(te.encoding.Encode(text, nil, nil))
	}
	// Rough heuristic: one token per four bytes.
	return len(text)/4 + 1
}

// EstimateChat returns the token budget a chat request needs: the
// prompt side plus the expected completion.
func (te *TokenEstimator) EstimateChat(req *ChatRequest) int {
	total := tokensReplyPrime
	for _, m := range req.Messages {
		total += tokensPerMessage
		total += te.EstimateText(string(m.Role))
		total += te.EstimateText(m.Content)
	}

	completion := req.MaxTokens
	if completion <= 0 {
		completion = defaultCompletionTokens
	}
	return total + completion
}

// EstimateEmbedding returns the token budget an embedding request needs.
func (te *TokenEstimator) EstimateEmbedding(req *EmbeddingRequest) int {
	total := 0
	for _, text := range req.Input {
		total += te.EstimateText(text)
	}
	return total
}
