package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallnest/lionago/action"
	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
)

const defaultOperateSteps = 5

// Operate runs an instruction through the chat service and executes
// any tool calls the model emits, feeding results back until the model
// produces a plain answer or maxSteps tool rounds have run. A tool
// call is an assistant reply whose content is a JSON object of the
// form {"function": "name", "arguments": {...}}; tool errors are
// reported back to the model instead of aborting the loop.
func (b *Branch) Operate(ctx context.Context, mgr *action.Manager, instruction string, maxSteps int) (*message.Message, error) {
	if maxSteps <= 0 {
		maxSteps = defaultOperateSteps
	}

	reply, err := b.Communicate(ctx, instruction)
	if err != nil {
		return nil, err
	}

	for step := 0; step < maxSteps; step++ {
		call, ok := parseActionCall(reply.Content)
		if !ok {
			return reply, nil
		}

		req := message.NewActionRequest(call.Function, call.Arguments)
		if err := b.AddMessage(req); err != nil {
			return nil, err
		}

		resp, err := mgr.Invoke(ctx, req)
		if err != nil {
			// The model gets the failure as a tool result and may
			// retry with different arguments or answer without it.
			resp = message.NewActionResponse(req, "error: "+err.Error())
		}
		if err := b.AddMessage(resp); err != nil {
			return nil, err
		}

		reply, err = b.complete(ctx)
		if err != nil {
			return nil, err
		}
		if err := b.AddMessage(reply); err != nil {
			return nil, err
		}
	}
	return reply, fmt.Errorf("operate: no final answer after %d tool steps", maxSteps)
}

// complete sends the transcript as-is, without a new instruction, and
// returns the assistant reply. The caller appends it.
func (b *Branch) complete(ctx context.Context) (*message.Message, error) {
	b.mu.RLock()
	svc := b.svc
	prompt := b.messagesLocked()
	if b.system != nil {
		prompt = append([]*message.Message{b.system}, prompt...)
	}
	req := &service.ChatRequest{
		Model:       b.model,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
		Messages:    prompt,
	}
	b.mu.RUnlock()

	if svc == nil {
		return nil, ErrNoService
	}

	resp, err := svc.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat via %s: %w", svc.Name(), err)
	}

	reply := message.NewAssistantResponse(resp.Content)
	reply.SetMeta("model", resp.Model)
	reply.SetMeta("finish_reason", resp.FinishReason)
	reply.SetMeta("usage", resp.Usage)
	return reply, nil
}

type actionCall struct {
	Function  string         `json:"function"`
	Arguments map[string]any `json:"arguments"`
}

// parseActionCall recognizes a tool call in assistant output. Content
// must be a single JSON object with a non-empty "function" field, with
// or without a surrounding markdown code fence.
func parseActionCall(content string) (actionCall, bool) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		return actionCall{}, false
	}

	var call actionCall
	if err := json.Unmarshal([]byte(s), &call); err != nil || call.Function == "" {
		return actionCall{}, false
	}
	return call, true
}
