package langchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
)

// fakeModel records the last GenerateContent input and returns canned
// responses.
type fakeModel struct {
	lastMessages []llms.MessageContent
	response     *llms.ContentResponse
	err          error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.lastMessages = messages
	return m.response, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func TestService_Chat(t *testing.T) {
	model := &fakeModel{
		response: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{
					Content:    "bonjour",
					StopReason: "stop",
					GenerationInfo: map[string]any{
						"PromptTokens":     7,
						"CompletionTokens": 2,
						"TotalTokens":      9,
					},
				},
			},
		},
	}
	svc := New(model)

	resp, err := svc.Chat(context.Background(), &service.ChatRequest{
		Messages: []*message.Message{
			message.NewSystem("translate to French"),
			message.NewInstruction("hello"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", resp.Content)
	assert.Equal(t, 9, resp.Usage.TotalTokens)
	require.Len(t, model.lastMessages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.lastMessages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.lastMessages[1].Role)
}

func TestService_Chat_ModelError(t *testing.T) {
	svc := New(&fakeModel{err: errors.New("backend down")})

	_, err := svc.Chat(context.Background(), &service.ChatRequest{
		Messages: []*message.Message{message.NewInstruction("hi")},
	})
	assert.ErrorContains(t, err, "backend down")
}

func TestService_Chat_EmptyChoices(t *testing.T) {
	svc := New(&fakeModel{response: &llms.ContentResponse{}})

	_, err := svc.Chat(context.Background(), &service.ChatRequest{
		Messages: []*message.Message{message.NewInstruction("hi")},
	})
	assert.ErrorIs(t, err, service.ErrEmptyResponse)
}

func TestWithName(t *testing.T) {
	svc := New(&fakeModel{}, WithName("ollama"))
	assert.Equal(t, "ollama", svc.Name())
}
