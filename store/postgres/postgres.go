// Package postgres provides a PostgreSQL-backed SnapshotStore for
// durable branch persistence across processes.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/lionago/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresSnapshotStore implements store.SnapshotStore using PostgreSQL.
type PostgresSnapshotStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for the Postgres connection.
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "snapshots"
}

// NewPostgresSnapshotStore creates a new Postgres snapshot store.
func NewPostgresSnapshotStore(ctx context.Context, opts PostgresOptions) (*PostgresSnapshotStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "snapshots"
	}
	return &PostgresSnapshotStore{pool: pool, tableName: tableName}, nil
}

// NewPostgresSnapshotStoreWithPool creates a store with an existing
// pool. Useful for testing with mocks.
func NewPostgresSnapshotStoreWithPool(pool DBPool, tableName string) *PostgresSnapshotStore {
	if tableName == "" {
		tableName = "snapshots"
	}
	return &PostgresSnapshotStore{pool: pool, tableName: tableName}
}

// InitSchema creates the necessary table if it doesn't exist.
func (s *PostgresSnapshotStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			branch_id TEXT NOT NULL,
			name TEXT NOT NULL,
			payload JSONB NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			version INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_branch_id ON %s (branch_id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresSnapshotStore) Close() {
	s.pool.Close()
}

// Save stores a snapshot.
func (s *PostgresSnapshotStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, branch_id, name, payload, timestamp, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			branch_id = EXCLUDED.branch_id,
			name = EXCLUDED.name,
			payload = EXCLUDED.payload,
			timestamp = EXCLUDED.timestamp,
			version = EXCLUDED.version
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.BranchID,
		snapshot.Name,
		payload,
		snapshot.Timestamp,
		snapshot.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load retrieves a snapshot by ID.
func (s *PostgresSnapshotStore) Load(ctx context.Context, snapshotID string) (*store.Snapshot, error) {
	query := fmt.Sprintf("SELECT payload FROM %s WHERE id = $1", s.tableName)

	var payload []byte
	err := s.pool.QueryRow(ctx, query, snapshotID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns all snapshots for a branch, oldest first.
func (s *PostgresSnapshotStore) List(ctx context.Context, branchID string) ([]*store.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT payload FROM %s
		WHERE branch_id = $1
		ORDER BY timestamp ASC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*store.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var snapshot store.Snapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
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
func (s *PostgresSnapshotStore) Delete(ctx context.Context, snapshotID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, snapshotID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Clear removes all snapshots for a branch.
func (s *PostgresSnapshotStore) Clear(ctx context.Context, branchID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE branch_id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, branchID); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)
