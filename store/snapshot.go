package store

import (
	"context"
	"errors"
	"time"

	"github.com/smallnest/lionago/message"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot represents a saved branch transcript at a specific point in
// a conversation.
type Snapshot struct {
	ID        string             `json:"id"`
	BranchID  string             `json:"branch_id"`
	Name      string             `json:"name"`
	System    *message.Message   `json:"system,omitempty"`
	Messages  []*message.Message `json:"messages"`
	Order     []string           `json:"order"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Version   int                `json:"version"`
}

// SnapshotStore defines the interface for snapshot persistence.
type SnapshotStore interface {
	// Save stores a snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load retrieves a snapshot by ID.
	Load(ctx context.Context, snapshotID string) (*Snapshot, error)

	// List returns all snapshots for a given branch, oldest first.
	List(ctx context.Context, branchID string) ([]*Snapshot, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, snapshotID string) error

	// Clear removes all snapshots for a branch.
	Clear(ctx context.Context, branchID string) error
}
