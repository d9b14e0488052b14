package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lionago/action"
	"github.com/smallnest/lionago/message"
)

func searchManager(t *testing.T, results string) *action.Manager {
	t.Helper()
	mgr, err := action.NewManager(action.NewFunc("lookup", "looks things up",
		func(_ context.Context, args map[string]any) (string, error) {
			q, _ := args["query"].(string)
			return results + " for " + q, nil
		}))
	require.NoError(t, err)
	return mgr
}

func TestOperate_PlainAnswer(t *testing.T) {
	svc := &scriptedService{replies: []string{"the answer is 4"}}
	b := NewBranch("main", svc)

	reply, err := b.Operate(context.Background(), searchManager(t, ""), "what is 2+2?", 3)
	require.NoError(t, err)
	assert.Equal(t, "the answer is 4", reply.Content)
	// instruction + reply only, no tool traffic
	assert.Equal(t, 2, b.Len())
}

func TestOperate_SingleToolRound(t *testing.T) {
	svc := &scriptedService{replies: []string{
		`{"function": "lookup", "arguments": {"query": "go release"}}`,
		"Go 1.25 is the latest release.",
	}}
	b := NewBranch("main", svc)

	reply, err := b.Operate(context.Background(), searchManager(t, "found docs"), "latest go?", 3)
	require.NoError(t, err)
	assert.Equal(t, "Go 1.25 is the latest release.", reply.Content)

	// instruction, tool-call reply, request, response, final reply
	msgs := b.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, message.RoleTool, msgs[2].Role)
	assert.Equal(t, "lookup", msgs[2].Function)
	assert.Equal(t, "found docs for go release", msgs[3].Output)

	// The second model call saw the tool output.
	last := svc.lastPrompt()
	assert.Equal(t, "found docs for go release", last[len(last)-1].Content)
}

func TestOperate_FencedToolCall(t *testing.T) {
	svc := &scriptedService{replies: []string{
		"```json\n{\"function\": \"lookup\", \"arguments\": {\"query\": \"x\"}}\n```",
		"done",
	}}
	b := NewBranch("main", svc)

	reply, err := b.Operate(context.Background(), searchManager(t, "hit"), "go", 3)
	require.NoError(t, err)
	assert.Equal(t, "done", reply.Content)
}

func TestOperate_ToolErrorFedBack(t *testing.T) {
	mgr, err := action.NewManager()
	require.NoError(t, err)

	svc := &scriptedService{replies: []string{
		`{"function": "missing", "arguments": {}}`,
		"I could not use that tool.",
	}}
	b := NewBranch("main", svc)

	reply, err := b.Operate(context.Background(), mgr, "try a tool", 3)
	require.NoError(t, err)
	assert.Equal(t, "I could not use that tool.", reply.Content)

	msgs := b.Messages()
	assert.Contains(t, msgs[3].Content, "error:")
	assert.Contains(t, msgs[3].Content, "tool not found")
}

func TestOperate_MaxStepsExceeded(t *testing.T) {
	// The model never stops asking for the tool.
	svc := &scriptedService{replies: []string{
		`{"function": "lookup", "arguments": {"query": "a"}}`,
		`{"function": "lookup", "arguments": {"query": "b"}}`,
		`{"function": "lookup", "arguments": {"query": "c"}}`,
	}}
	b := NewBranch("main", svc)

	_, err := b.Operate(context.Background(), searchManager(t, "more"), "loop", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no final answer after 2 tool steps")
}

func TestParseActionCall(t *testing.T) {
	call, ok := parseActionCall(`{"function": "f", "arguments": {"a": 1}}`)
	require.True(t, ok)
	assert.Equal(t, "f", call.Function)
	assert.Equal(t, float64(1), call.Arguments["a"])

	_, ok = parseActionCall("just text")
	assert.False(t, ok)

	_, ok = parseActionCall(`{"arguments": {}}`)
	assert.False(t, ok)

	_, ok = parseActionCall(`{"function": ""}`)
	assert.False(t, ok)
}
