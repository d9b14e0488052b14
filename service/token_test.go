package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/lionago/message"
)

func TestTokenEstimator_HeuristicFallback(t *testing.T) {
	te := NewTokenEstimator("")

	assert.Equal(t, 0, te.EstimateText(""))
	assert.Equal(t, 1, te.EstimateText("hi"))
	// 40 bytes / 4 + 1
	assert.Equal(t, 11, te.EstimateText(string(make([]byte, 40))))
}

func TestTokenEstimator_UnknownModelFallsBack(t *testing.T) {
	te := NewTokenEstimator("definitely-not-a-real-model")
	assert.Positive(t, te.EstimateText("hello world"))
}

func TestTokenEstimator_EstimateChat(t *testing.T) {
	te := NewTokenEstimator("")

	req := &ChatRequest{
		Messages: []*message.Message{
			message.NewSystem("be terse"),
			message.NewInstruction("hello"),
		},
	}

	got := te.EstimateChat(req)
	// Two messages of framing overhead, role and content tokens, the
	// reply prime, and the default completion budget.
	min := 2*tokensPerMessage + tokensReplyPrime + defaultCompletionTokens
	assert.Greater(t, got, min)

	req.MaxTokens = 500
	withCap := te.EstimateChat(req)
	assert.Equal(t, got-defaultCompletionTokens+500, withCap)
}

func TestTokenEstimator_EstimateEmbedding(t *testing.T) {
	te := NewTokenEstimator("")

	req := &EmbeddingRequest{Input: []string{"hello", "world"}}
	assert.Positive(t, te.EstimateEmbedding(req))
	assert.Equal(t, 0, te.EstimateEmbedding(&EmbeddingRequest{}))
}
