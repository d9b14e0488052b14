package message

import (
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/lionago/core"
)

// ToLangchain converts a transcript into langchaingo message content, so
// any llms.Model can consume it.
func ToLangchain(msgs []*Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llms.TextParts(chatMessageType(m.Role), m.Content))
	}
	return out
}

// FromLangchain converts langchaingo message content back into
// transcript messages. Non-text parts are ignored.
func FromLangchain(contents []llms.MessageContent) []*Message {
	out := make([]*Message, 0, len(contents))
	for _, mc := range contents {
		var sb strings.Builder
		for _, part := range mc.Parts {
			if text, ok := part.(llms.TextContent); ok {
				sb.WriteString(text.Text)
			}
		}

		var m *Message
		switch mc.Role {
		case llms.ChatMessageTypeSystem:
			m = NewSystem(sb.String())
		case llms.ChatMessageTypeAI:
			m = NewAssistantResponse(sb.String())
		case llms.ChatMessageTypeTool, llms.ChatMessageTypeFunction:
			m = &Message{Element: core.NewElement(), Role: RoleTool, Content: sb.String()}
		default:
			m = NewInstruction(sb.String())
		}
		out = append(out, m)
	}
	return out
}

func chatMessageType(role Role) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	case RoleTool:
		return llms.ChatMessageTypeTool
	default:
		return llms.ChatMessageTypeHuman
	}
}
