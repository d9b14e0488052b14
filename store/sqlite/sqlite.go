// Package sqlite provides a SnapshotStore backed by SQLite, for
// single-node persistence without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/lionago/store"
)

// SqliteSnapshotStore implements store.SnapshotStore using SQLite.
type SqliteSnapshotStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for the SQLite store.
type SqliteOptions struct {
	Path      string
	TableName string // Default "snapshots"
}

// NewSqliteSnapshotStore opens (or creates) the database and ensures
// the schema exists.
func NewSqliteSnapshotStore(opts SqliteOptions) (*SqliteSnapshotStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "snapshots"
	}

	s := &SqliteSnapshotStore{db: db, tableName: tableName}
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema creates the snapshot table if it doesn't exist.
func (s *SqliteSnapshotStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			branch_id TEXT NOT NULL,
			name TEXT NOT NULL,
			payload TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			version INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_branch_id ON %s (branch_id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteSnapshotStore) Close() error {
	return s.db.Close()
}

// Save stores a snapshot.
func (s *SqliteSnapshotStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, branch_id, name, payload, timestamp, version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			branch_id = excluded.branch_id,
			name = excluded.name,
			payload = excluded.payload,
			timestamp = excluded.timestamp,
			version = excluded.version
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.BranchID,
		snapshot.Name,
		string(payload),
		snapshot.Timestamp,
		snapshot.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load retrieves a snapshot by ID.
func (s *SqliteSnapshotStore) Load(ctx context.Context, snapshotID string) (*store.Snapshot, error) {
	query := fmt.Sprintf("SELECT payload FROM %s WHERE id = ?", s.tableName)

	var payload string
	err := s.db.QueryRowContext(ctx, query, snapshotID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns all snapshots for a branch, oldest first.
func (s *SqliteSnapshotStore) List(ctx context.Context, branchID string) ([]*store.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT payload FROM %s
		WHERE branch_id = ?
		ORDER BY timestamp ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*store.Snapshot
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var snapshot store.Snapshot
		if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}

// Delete removes a snapshot.
func (s *SqliteSnapshotStore) Delete(ctx context.Context, snapshotID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, snapshotID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Clear removes all snapshots for a branch.
func (s *SqliteSnapshotStore) Clear(ctx context.Context, branchID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE branch_id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, branchID); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

var _ store.SnapshotStore = (*SqliteSnapshotStore)(nil)
