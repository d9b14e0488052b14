package message

import (
	"encoding/json"
	"fmt"

	"github.com/smallnest/lionago/core"
)

// Role identifies who produced a message.
type Role string

const (
	// RoleSystem is the branch-level system directive.
	RoleSystem Role = "system"
	// RoleUser is an instruction from the user.
	RoleUser Role = "user"
	// RoleAssistant is a model response.
	RoleAssistant Role = "assistant"
	// RoleTool is an action request or response.
	RoleTool Role = "tool"
)

// Message is a single entry in a branch transcript.
type Message struct {
	core.Element

	// Role identifies the message producer.
	Role Role `json:"role"`

	// Content is the textual payload.
	Content string `json:"content"`

	// Sender and Recipient identify branches (or "user"/"system") for
	// inter-branch mail. Empty for ordinary transcript entries.
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`

	// Function and Arguments are set on action requests.
	Function  string         `json:"function,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`

	// Output is set on action responses.
	Output string `json:"output,omitempty"`
}

// NewSystem creates a system directive message.
func NewSystem(content string) *Message {
	return &Message{
		Element: core.NewElement(),
		Role:    RoleSystem,
		Content: content,
	}
}

// NewInstruction creates a user instruction message.
func NewInstruction(content string) *Message {
	return &Message{
		Element: core.NewElement(),
		Role:    RoleUser,
		Content: content,
	}
}

// NewAssistantResponse creates an assistant response message.
func NewAssistantResponse(content string) *Message {
	return &Message{
		Element: core.NewElement(),
		Role:    RoleAssistant,
		Content: content,
	}
}

// NewActionRequest creates a tool invocation request.
func NewActionRequest(function string, arguments map[string]any) *Message {
	content := function
	if len(arguments) > 0 {
		if b, err := json.Marshal(arguments); err == nil {
			content = fmt.Sprintf("%s(%s)", function, b)
		}
	}
	return &Message{
		Element:   core.NewElement(),
		Role:      RoleTool,
		Content:   content,
		Function:  function,
		Arguments: arguments,
	}
}

// NewActionResponse creates a tool invocation result for the given
// request.
func NewActionResponse(request *Message, output string) *Message {
	m := &Message{
		Element: core.NewElement(),
		Role:    RoleTool,
		Content: output,
		Output:  output,
	}
	if request != nil {
		m.Function = request.Function
		m.SetMeta("request_id", request.ID)
	}
	return m
}

// Clone returns a copy of the message with a fresh identity. The clone
// records the original's ID in its metadata.
func (m *Message) Clone() *Message {
	clone := *m
	clone.Element = core.NewElement()
	if m.Arguments != nil {
		clone.Arguments = make(map[string]any, len(m.Arguments))
		for k, v := range m.Arguments {
			clone.Arguments[k] = v
		}
	}
	clone.SetMeta("cloned_from", m.ID)
	return &clone
}

// IsAction reports whether the message is an action request or response.
func (m *Message) IsAction() bool {
	return m.Role == RoleTool
}

func (m *Message) String() string {
	return fmt.Sprintf("%s: %s", m.Role, m.Content)
}
