package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lionago/message"
)

func echoTool() *Func {
	return NewFunc("echo", "repeats its input", func(_ context.Context, args map[string]any) (string, error) {
		s, _ := args["text"].(string)
		return s, nil
	})
}

func TestManager_RegisterAndGet(t *testing.T) {
	m, err := NewManager(echoTool())
	require.NoError(t, err)

	tool, err := m.Get("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", tool.Name())

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestManager_DuplicateName(t *testing.T) {
	m, err := NewManager(echoTool())
	require.NoError(t, err)

	err = m.Register(echoTool())
	assert.ErrorIs(t, err, ErrToolExists)
}

func TestManager_Unregister(t *testing.T) {
	m, err := NewManager(echoTool())
	require.NoError(t, err)

	require.NoError(t, m.Unregister("echo"))
	assert.ErrorIs(t, m.Unregister("echo"), ErrToolNotFound)
}

func TestManager_Names(t *testing.T) {
	m, err := NewManager(
		NewFunc("zeta", "", func(context.Context, map[string]any) (string, error) { return "", nil }),
		NewFunc("alpha", "", func(context.Context, map[string]any) (string, error) { return "", nil }),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, m.Names())
}

func TestManager_Describe(t *testing.T) {
	m, err := NewManager(echoTool())
	require.NoError(t, err)
	assert.Contains(t, m.Describe(), "- echo: repeats its input")
}

func TestManager_Invoke(t *testing.T) {
	m, err := NewManager(echoTool())
	require.NoError(t, err)

	req := message.NewActionRequest("echo", map[string]any{"text": "hello"})
	resp, err := m.Invoke(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Output)
	assert.Equal(t, "echo", resp.Function)
	meta, _ := resp.GetMeta("request_id")
	assert.Equal(t, req.ID, meta)
}

func TestManager_InvokeUnknownTool(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	req := message.NewActionRequest("missing", nil)
	_, err = m.Invoke(context.Background(), req)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestManager_InvokeNonAction(t *testing.T) {
	m, err := NewManager(echoTool())
	require.NoError(t, err)

	_, err = m.Invoke(context.Background(), message.NewInstruction("hi"))
	assert.ErrorIs(t, err, ErrNotActionRequest)
}

func TestManager_InvokeToolError(t *testing.T) {
	boom := errors.New("boom")
	m, err := NewManager(NewFunc("fail", "", func(context.Context, map[string]any) (string, error) {
		return "", boom
	}))
	require.NoError(t, err)

	_, err = m.Invoke(context.Background(), message.NewActionRequest("fail", nil))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "invoke fail")
}
