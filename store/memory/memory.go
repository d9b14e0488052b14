// Package memory provides an in-memory SnapshotStore, suitable for
// tests and single-process use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/smallnest/lionago/store"
)

// MemorySnapshotStore implements store.SnapshotStore with a mutex-guarded map.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*store.Snapshot
}

// NewMemorySnapshotStore creates a new in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots: make(map[string]*store.Snapshot),
	}
}

// Save stores a snapshot.
func (s *MemorySnapshotStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.ID] = snapshot
	return nil
}

// Load retrieves a snapshot by ID.
func (s *MemorySnapshotStore) Load(_ context.Context, snapshotID string) (*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[snapshotID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
	}
	return snapshot, nil
}

// List returns all snapshots for a branch, oldest first.
func (s *MemorySnapshotStore) List(_ context.Context, branchID string) ([]*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*store.Snapshot
	for _, snapshot := range s.snapshots {
		if snapshot.BranchID == branchID {
			out = append(out, snapshot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Delete removes a snapshot.
func (s *MemorySnapshotStore) Delete(_ context.Context, snapshotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[snapshotID]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
	}
	delete(s.snapshots, snapshotID)
	return nil
}

// Clear removes all snapshots for a branch.
func (s *MemorySnapshotStore) Clear(_ context.Context, branchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, snapshot := range s.snapshots {
		if snapshot.BranchID == branchID {
			delete(s.snapshots, id)
		}
	}
	return nil
}

var _ store.SnapshotStore = (*MemorySnapshotStore)(nil)
