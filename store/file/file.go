// Package file provides a SnapshotStore that keeps one JSON file per
// snapshot in a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/smallnest/lionago/store"
)

// FileSnapshotStore implements store.SnapshotStore on the local
// filesystem. Snapshot IDs map to <dir>/<id>.json.
type FileSnapshotStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileSnapshotStore creates a file-based snapshot store rooted at
// dir, creating the directory if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save stores a snapshot.
func (s *FileSnapshotStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(snapshot.ID), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load retrieves a snapshot by ID.
func (s *FileSnapshotStore) Load(_ context.Context, snapshotID string) (*store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readLocked(snapshotID)
}

func (s *FileSnapshotStore) readLocked(snapshotID string) (*store.Snapshot, error) {
	data, err := os.ReadFile(s.path(snapshotID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns all snapshots for a branch, oldest first.
func (s *FileSnapshotStore) List(_ context.Context, branchID string) ([]*store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var out []*store.Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		snapshot, err := s.readLocked(id)
		if err != nil {
			continue
		}
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
func (s *FileSnapshotStore) Delete(_ context.Context, snapshotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(snapshotID)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
		}
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Clear removes all snapshots for a branch.
func (s *FileSnapshotStore) Clear(ctx context.Context, branchID string) error {
	snapshots, err := s.List(ctx, branchID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snapshot := range snapshots {
		if err := os.Remove(s.path(snapshot.ID)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete snapshot: %w", err)
		}
	}
	return nil
}

var _ store.SnapshotStore = (*FileSnapshotStore)(nil)
