package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/lionago/core"
	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
	"github.com/smallnest/lionago/store"
)

// ErrNoService is returned when a branch without a chat service is
// asked to chat.
var ErrNoService = errors.New("branch has no chat service")

// Branch is a single conversation thread: a system directive, an
// ordered transcript of messages, and the chat service that extends
// it. All methods are safe for concurrent use.
type Branch struct {
	core.Element

	// Name is a human-readable label, unique within a session.
	Name string

	mu       sync.RWMutex
	system   *message.Message
	messages *core.Pile[*message.Message]
	order    *core.Progression
	inbox    []*message.Message

	svc         service.ChatService
	model       string
	temperature float64
	maxTokens   int
}

// BranchOption configures a new branch.
type BranchOption func(*Branch)

// WithSystem sets the system directive.
func WithSystem(content string) BranchOption {
	return func(b *Branch) { b.system = message.NewSystem(content) }
}

// WithModel sets the model requested on every chat call.
func WithModel(model string) BranchOption {
	return func(b *Branch) { b.model = model }
}

// WithTemperature sets the sampling temperature for chat calls.
func WithTemperature(temperature float64) BranchOption {
	return func(b *Branch) { b.temperature = temperature }
}

// WithMaxTokens caps the completion length for chat calls.
func WithMaxTokens(maxTokens int) BranchOption {
	return func(b *Branch) { b.maxTokens = maxTokens }
}

// NewBranch creates a branch named name that chats through svc. A nil
// svc is allowed for branches used only as transcripts.
func NewBranch(name string, svc service.ChatService, opts ...BranchOption) *Branch {
	b := &Branch{
		Element:  core.NewElement(),
		Name:     name,
		messages: core.NewPile[*message.Message](),
		order:    core.NewProgression(name),
		svc:      svc,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSystem replaces the system directive. It always renders first in
// the transcript regardless of when it was set.
func (b *Branch) SetSystem(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.system = message.NewSystem(content)
}

// System returns the current system directive, or nil.
func (b *Branch) System() *message.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.system
}

// AddMessage appends a message to the transcript.
func (b *Branch) AddMessage(msg *message.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addLocked(msg)
}

func (b *Branch) addLocked(msg *message.Message) error {
	if err := b.messages.Append(msg); err != nil {
		return err
	}
	b.order.Append(msg.GetID())
	return nil
}

// Messages returns the transcript in order, without the system slot.
func (b *Branch) Messages() []*message.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.messagesLocked()
}

func (b *Branch) messagesLocked() []*message.Message {
	out := make([]*message.Message, 0, b.order.Len())
	for _, id := range b.order.Order {
		if msg, err := b.messages.Get(id); err == nil {
			out = append(out, msg)
		}
	}
	return out
}

// ToMessages returns the full prompt: the system directive first (when
// set), then the transcript in order.
func (b *Branch) ToMessages() []*message.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs := b.messagesLocked()
	if b.system == nil {
		return msgs
	}
	out := make([]*message.Message, 0, len(msgs)+1)
	out = append(out, b.system)
	return append(out, msgs...)
}

// Len returns the number of transcript messages.
func (b *Branch) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.order.Len()
}

// LastResponse returns the most recent assistant message, or nil.
func (b *Branch) LastResponse() *message.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	order := b.order.Order
	for i := len(order) - 1; i >= 0; i-- {
		msg, err := b.messages.Get(order[i])
		if err == nil && msg.Role == message.RoleAssistant {
			return msg
		}
	}
	return nil
}

// Chat sends the transcript plus the given instruction through the
// chat service and returns the assistant reply. The transcript is NOT
// modified; use Communicate to converse statefully.
func (b *Branch) Chat(ctx context.Context, instruction string) (*message.Message, error) {
	_, reply, err := b.chat(ctx, instruction)
	return reply, err
}

// Communicate is Chat followed by remembering both sides: the
// instruction and the assistant reply are appended to the transcript.
func (b *Branch) Communicate(ctx context.Context, instruction string) (*message.Message, error) {
	instructionMsg, reply, err := b.chat(ctx, instruction)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.addLocked(instructionMsg); err != nil {
		return nil, err
	}
	if err := b.addLocked(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (b *Branch) chat(ctx context.Context, instruction string) (*message.Message, *message.Message, error) {
	instructionMsg := message.NewInstruction(instruction)

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
		Messages:    append(prompt, instructionMsg),
	}
	b.mu.RUnlock()

	if svc == nil {
		return nil, nil, ErrNoService
	}

	resp, err := svc.Chat(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("chat via %s: %w", svc.Name(), err)
	}

	reply := message.NewAssistantResponse(resp.Content)
	reply.SetMeta("model", resp.Model)
	reply.SetMeta("finish_reason", resp.FinishReason)
	reply.SetMeta("usage", resp.Usage)
	return instructionMsg, reply, nil
}

// Clone returns a deep copy of the branch under a new identity. The
// transcript messages are cloned; the chat service is shared.
func (b *Branch) Clone(name string) *Branch {
	b.mu.RLock()
	defer b.mu.RUnlock()

	clone := NewBranch(name, b.svc)
	clone.model = b.model
	clone.temperature = b.temperature
	clone.maxTokens = b.maxTokens
	if b.system != nil {
		clone.system = b.system.Clone()
	}
	for _, msg := range b.messagesLocked() {
		cloned := msg.Clone()
		clone.messages.Append(cloned)
		clone.order.Append(cloned.GetID())
	}
	return clone
}

// SendTo delivers a mail message to another branch's inbox. The
// message records this branch as sender.
func (b *Branch) SendTo(recipient *Branch, content string) *message.Message {
	mail := message.NewInstruction(content)
	mail.Sender = b.GetID()
	mail.Recipient = recipient.GetID()

	recipient.mu.Lock()
	recipient.inbox = append(recipient.inbox, mail)
	recipient.mu.Unlock()
	return mail
}

// Receive drains the inbox into the transcript and returns the
// messages received, in delivery order.
func (b *Branch) Receive() []*message.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	received := b.inbox
	b.inbox = nil
	for _, msg := range received {
		b.addLocked(msg)
	}
	return received
}

// Pending returns the number of undelivered inbox messages.
func (b *Branch) Pending() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.inbox)
}

// Snapshot captures the branch transcript for persistence.
func (b *Branch) Snapshot() *store.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs := b.messagesLocked()
	order := slices.Clone(b.order.Order)

	snap := &store.Snapshot{
		ID:        uuid.New().String(),
		BranchID:  b.GetID(),
		Name:      b.Name,
		Messages:  msgs,
		Order:     order,
		Metadata:  b.Metadata,
		Timestamp: time.Now(),
		Version:   len(order),
	}
	if b.system != nil {
		snap.System = b.system
	}
	return snap
}

// RestoreSnapshot replaces the branch transcript with the snapshot
// contents.
func (b *Branch) RestoreSnapshot(snap *store.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages.Clear()
	b.order.Clear()
	b.system = snap.System

	byID := make(map[string]*message.Message, len(snap.Messages))
	for _, msg := range snap.Messages {
		byID[msg.GetID()] = msg
	}
	for _, id := range snap.Order {
		msg, ok := byID[id]
		if !ok {
			return fmt.Errorf("snapshot order references unknown message %s", id)
		}
		if err := b.addLocked(msg); err != nil {
			return err
		}
	}
	return nil
}
