package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lionago/store/memory"
)

func TestSession_DefaultBranch(t *testing.T) {
	s := NewSession(&scriptedService{}, WithDefaultBranchOptions(WithSystem("root")))

	main := s.DefaultBranch()
	require.NotNil(t, main)
	assert.Equal(t, DefaultBranchName, main.Name)
	assert.Equal(t, "root", main.System().Content)

	got, err := s.Branch(DefaultBranchName)
	require.NoError(t, err)
	assert.Same(t, main, got)
}

func TestSession_NewBranch(t *testing.T) {
	s := NewSession(&scriptedService{})

	b, err := s.NewBranch("research", WithSystem("dig deep"))
	require.NoError(t, err)
	assert.Equal(t, "research", b.Name)
	assert.Len(t, s.Branches(), 2)

	_, err = s.NewBranch("research")
	assert.ErrorIs(t, err, ErrBranchExists)
}

func TestSession_BranchNotFound(t *testing.T) {
	s := NewSession(&scriptedService{})

	_, err := s.Branch("nope")
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestSession_RemoveBranch(t *testing.T) {
	s := NewSession(&scriptedService{})
	_, err := s.NewBranch("scratch")
	require.NoError(t, err)

	require.NoError(t, s.RemoveBranch("scratch"))
	_, err = s.Branch("scratch")
	assert.ErrorIs(t, err, ErrBranchNotFound)

	assert.ErrorIs(t, s.RemoveBranch("scratch"), ErrBranchNotFound)
	assert.ErrorContains(t, s.RemoveBranch(DefaultBranchName), "default branch")
}

func TestSession_Split(t *testing.T) {
	svc := &scriptedService{replies: []string{"first answer"}}
	s := NewSession(svc)

	_, err := s.Chat(context.Background(), "start")
	require.NoError(t, err)

	fork, err := s.Split(DefaultBranchName, "alt")
	require.NoError(t, err)
	assert.Equal(t, 2, fork.Len())
	assert.Len(t, s.Branches(), 2)

	// Fork diverges without touching main.
	svc.replies = append(svc.replies, "alt answer")
	_, err = fork.Communicate(context.Background(), "what if?")
	require.NoError(t, err)
	assert.Equal(t, 4, fork.Len())
	assert.Equal(t, 2, s.DefaultBranch().Len())

	_, err = s.Split(DefaultBranchName, "alt")
	assert.ErrorIs(t, err, ErrBranchExists)

	_, err = s.Split("ghost", "whatever")
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestSession_Mail(t *testing.T) {
	s := NewSession(&scriptedService{})
	_, err := s.NewBranch("worker")
	require.NoError(t, err)

	mail, err := s.SendMail(DefaultBranchName, "worker", "please summarize")
	require.NoError(t, err)
	assert.Equal(t, s.DefaultBranch().GetID(), mail.Sender)

	received, err := s.CollectMail("worker")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "please summarize", received[0].Content)

	worker, err := s.Branch("worker")
	require.NoError(t, err)
	assert.Equal(t, 1, worker.Len())

	_, err = s.SendMail(DefaultBranchName, "ghost", "hello?")
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestSession_SaveAndRestoreBranch(t *testing.T) {
	svc := &scriptedService{replies: []string{"remembered"}}
	s := NewSession(svc)
	ctx := context.Background()

	_, err := s.Chat(ctx, "note this down")
	require.NoError(t, err)

	st := memory.NewMemorySnapshotStore()
	snap, err := s.SaveBranch(ctx, st, DefaultBranchName)
	require.NoError(t, err)
	assert.Equal(t, s.DefaultBranch().GetID(), snap.BranchID)

	// Restore into a brand-new branch.
	restored, err := s.RestoreBranch(ctx, st, "replay", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, "remembered", restored.LastResponse().Content)
	assert.Len(t, s.Branches(), 2)

	// Restoring into an existing branch replaces its transcript.
	again, err := s.RestoreBranch(ctx, st, "replay", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Len())
}

func TestSession_Chat_UsesDefaultBranch(t *testing.T) {
	svc := &scriptedService{replies: []string{"pong"}}
	s := NewSession(svc)

	reply, err := s.Chat(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", reply.Content)
	assert.Equal(t, 2, s.DefaultBranch().Len())
}
