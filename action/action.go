package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/smallnest/lionago/message"
)

var (
	// ErrToolExists is returned when registering a tool whose name is taken.
	ErrToolExists = errors.New("tool already registered")
	// ErrToolNotFound is returned when a request names an unknown tool.
	ErrToolNotFound = errors.New("tool not found")
	// ErrNotActionRequest is returned when a message is not a tool request.
	ErrNotActionRequest = errors.New("message is not an action request")
)

// Tool is a callable the model can invoke by name.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, arguments map[string]any) (string, error)
}

// Func adapts a plain function into a Tool.
type Func struct {
	name        string
	description string
	fn          func(ctx context.Context, arguments map[string]any) (string, error)
}

// NewFunc wraps fn as a named tool.
func NewFunc(name, description string, fn func(ctx context.Context, arguments map[string]any) (string, error)) *Func {
	return &Func{name: name, description: description, fn: fn}
}

func (f *Func) Name() string        { return f.name }
func (f *Func) Description() string { return f.description }

func (f *Func) Call(ctx context.Context, arguments map[string]any) (string, error) {
	return f.fn(ctx, arguments)
}

// Manager holds registered tools and dispatches action requests to
// them. It is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewManager returns an empty tool registry.
func NewManager(tools ...Tool) (*Manager, error) {
	m := &Manager{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := m.Register(t); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register adds a tool. Names must be unique.
func (m *Manager) Register(t Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tools[t.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrToolExists, t.Name())
	}
	m.tools[t.Name()] = t
	return nil
}

// Unregister removes a tool by name.
func (m *Manager) Unregister(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tools[name]; !ok {
		return fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	delete(m.tools, name)
	return nil
}

// Get returns a registered tool by name.
func (m *Manager) Get(name string) (Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Names returns the registered tool names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tools))
	for name := range m.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders a short catalog of the registered tools, suitable
// for inclusion in a system prompt.
func (m *Manager) Describe() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tools))
	for name := range m.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: %s\n", name, m.tools[name].Description())
	}
	return sb.String()
}

// Invoke resolves req to a registered tool, runs it, and returns the
// tool output as an action response message linked to the request.
func (m *Manager) Invoke(ctx context.Context, req *message.Message) (*message.Message, error) {
	if req == nil || !req.IsAction() || req.Function == "" {
		return nil, ErrNotActionRequest
	}

	t, err := m.Get(req.Function)
	if err != nil {
		return nil, err
	}

	output, err := t.Call(ctx, req.Arguments)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", req.Function, err)
	}
	return message.NewActionResponse(req, output), nil
}
