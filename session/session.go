package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/smallnest/lionago/core"
	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/service"
	"github.com/smallnest/lionago/store"
)

// DefaultBranchName is the name of the branch a session starts with.
const DefaultBranchName = "main"

var (
	// ErrBranchNotFound is returned when a branch name is unknown.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrBranchExists is returned when a branch name is already taken.
	ErrBranchExists = errors.New("branch already exists")
)

// Session manages a set of branches sharing one default chat service.
type Session struct {
	core.Element

	mu       sync.RWMutex
	branches *core.Pile[*Branch]
	byName   map[string]string // name -> branch ID
	main     *Branch

	svc service.ChatService
}

// SessionOption configures a new session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	branchOpts []BranchOption
}

// WithDefaultBranchOptions applies the options to the default branch.
func WithDefaultBranchOptions(opts ...BranchOption) SessionOption {
	return func(o *sessionOptions) { o.branchOpts = opts }
}

// NewSession creates a session with a default branch talking to svc.
func NewSession(svc service.ChatService, opts ...SessionOption) *Session {
	o := &sessionOptions{}
	for _, opt := range opts {
		opt(o)
	}

	s := &Session{
		Element:  core.NewElement(),
		branches: core.NewPile[*Branch](),
		byName:   make(map[string]string),
		svc:      svc,
	}
	s.main = NewBranch(DefaultBranchName, svc, o.branchOpts...)
	s.branches.Append(s.main)
	s.byName[DefaultBranchName] = s.main.GetID()
	return s
}

// DefaultBranch returns the branch the session started with.
func (s *Session) DefaultBranch() *Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.main
}

// NewBranch creates and registers a branch. The name must be unused.
func (s *Session) NewBranch(name string, opts ...BranchOption) (*Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[name]; taken {
		return nil, fmt.Errorf("%w: %s", ErrBranchExists, name)
	}

	b := NewBranch(name, s.svc, opts...)
	if err := s.branches.Append(b); err != nil {
		return nil, err
	}
	s.byName[name] = b.GetID()
	return b, nil
}

// Branch returns the branch with the given name.
func (s *Session) Branch(name string) (*Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}
	return s.branches.Get(id)
}

// Branches returns all branches in creation order.
func (s *Session) Branches() []*Branch {
	return s.branches.Values()
}

// RemoveBranch unregisters a branch. The default branch cannot be
// removed.
func (s *Session) RemoveBranch(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}
	if id == s.main.GetID() {
		return fmt.Errorf("cannot remove default branch %s", name)
	}
	s.branches.Exclude(id)
	delete(s.byName, name)
	return nil
}

// Split clones an existing branch under a new name and registers the
// clone, so alternate conversation paths can be explored in parallel.
func (s *Session) Split(fromName, toName string) (*Branch, error) {
	source, err := s.Branch(fromName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[toName]; taken {
		return nil, fmt.Errorf("%w: %s", ErrBranchExists, toName)
	}

	clone := source.Clone(toName)
	if err := s.branches.Append(clone); err != nil {
		return nil, err
	}
	s.byName[toName] = clone.GetID()
	return clone, nil
}

// SendMail routes a message from one branch's context into another's
// inbox, addressed by branch names.
func (s *Session) SendMail(fromName, toName, content string) (*message.Message, error) {
	from, err := s.Branch(fromName)
	if err != nil {
		return nil, err
	}
	to, err := s.Branch(toName)
	if err != nil {
		return nil, err
	}
	return from.SendTo(to, content), nil
}

// CollectMail drains the named branch's inbox into its transcript and
// returns what arrived.
func (s *Session) CollectMail(name string) ([]*message.Message, error) {
	b, err := s.Branch(name)
	if err != nil {
		return nil, err
	}
	return b.Receive(), nil
}

// Chat runs a stateful exchange on the default branch.
func (s *Session) Chat(ctx context.Context, instruction string) (*message.Message, error) {
	return s.DefaultBranch().Communicate(ctx, instruction)
}

// SaveBranch snapshots the named branch into the given store.
func (s *Session) SaveBranch(ctx context.Context, st store.SnapshotStore, name string) (*store.Snapshot, error) {
	b, err := s.Branch(name)
	if err != nil {
		return nil, err
	}
	snap := b.Snapshot()
	if err := st.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// RestoreBranch loads a snapshot and replays it into the named branch,
// creating the branch if it does not exist yet.
func (s *Session) RestoreBranch(ctx context.Context, st store.SnapshotStore, name, snapshotID string) (*Branch, error) {
	snap, err := st.Load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	b, err := s.Branch(name)
	if errors.Is(err, ErrBranchNotFound) {
		b, err = s.NewBranch(name)
	}
	if err != nil {
		return nil, err
	}

	if err := b.RestoreSnapshot(snap); err != nil {
		return nil, err
	}
	return b, nil
}
