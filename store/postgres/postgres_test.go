package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lionago/message"
	"github.com/smallnest/lionago/store"
)

func newSnapshot(id, branchID string) *store.Snapshot {
	msg := message.NewInstruction("persist me")
	return &store.Snapshot{
		ID:        id,
		BranchID:  branchID,
		Name:      "main",
		Messages:  []*message.Message{msg},
		Order:     []string{msg.GetID()},
		Timestamp: time.Now(),
		Version:   1,
	}
}

func TestPostgresSnapshotStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	snap := newSnapshot("snap-1", "branch-1")
	payload, _ := json.Marshal(snap)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots")).
		WithArgs(
			snap.ID,
			snap.BranchID,
			snap.Name,
			payload,
			snap.Timestamp,
			snap.Version,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = ps.Save(context.Background(), snap)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	snap := newSnapshot("snap-1", "branch-1")
	payload, _ := json.Marshal(snap)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM snapshots WHERE id = $1")).
		WithArgs("snap-1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	loaded, err := ps.Load(context.Background(), "snap-1")
	require.NoError(t, err)
	assert.Equal(t, "branch-1", loaded.BranchID)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "persist me", loaded.Messages[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_Load_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM snapshots WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = ps.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	first, _ := json.Marshal(newSnapshot("snap-1", "branch-1"))
	second, _ := json.Marshal(newSnapshot("snap-2", "branch-1"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM snapshots")).
		WithArgs("branch-1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(first).AddRow(second))

	snaps, err := ps.List(context.Background(), "branch-1")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "snap-1", snaps[0].ID)
	assert.Equal(t, "snap-2", snaps[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM snapshots WHERE id = $1")).
		WithArgs("snap-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, ps.Delete(context.Background(), "snap-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_Clear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM snapshots WHERE branch_id = $1")).
		WithArgs("branch-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	assert.NoError(t, ps.Clear(context.Background(), "branch-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, ps.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_SaveError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots")).
		WillReturnError(errors.New("connection refused"))

	err = ps.Save(context.Background(), newSnapshot("snap-1", "branch-1"))
	assert.ErrorContains(t, err, "failed to save snapshot")
}
