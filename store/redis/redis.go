// Package redis provides a Redis-backed SnapshotStore with optional
// TTL, suitable for sharing branch state across processes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/lionago/store"
)

// RedisSnapshotStore implements store.SnapshotStore using Redis. Each
// snapshot lives under its own key; a per-branch set indexes the IDs.
type RedisSnapshotStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "lionago:"
	TTL      time.Duration // Expiration for snapshots, default 0 (no expiration)
}

// NewRedisSnapshotStore creates a new Redis snapshot store.
func NewRedisSnapshotStore(opts RedisOptions) *RedisSnapshotStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "lionago:"
	}

	return &RedisSnapshotStore{client: client, prefix: prefix, ttl: opts.TTL}
}

// NewRedisSnapshotStoreWithClient wraps an existing client. Useful for
// tests.
func NewRedisSnapshotStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisSnapshotStore {
	if prefix == "" {
		prefix = "lionago:"
	}
	return &RedisSnapshotStore{client: client, prefix: prefix, ttl: ttl}
}

// Close closes the underlying client.
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

func (s *RedisSnapshotStore) snapshotKey(id string) string {
	return fmt.Sprintf("%ssnapshot:%s", s.prefix, id)
}

func (s *RedisSnapshotStore) branchKey(id string) string {
	return fmt.Sprintf("%sbranch:%s:snapshots", s.prefix, id)
}

// Save stores a snapshot and indexes it under its branch.
func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.snapshotKey(snapshot.ID), data, s.ttl)

	if snapshot.BranchID != "" {
		branchKey := s.branchKey(snapshot.BranchID)
		pipe.SAdd(ctx, branchKey, snapshot.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, branchKey, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}

// Load retrieves a snapshot by ID.
func (s *RedisSnapshotStore) Load(ctx context.Context, snapshotID string) (*store.Snapshot, error) {
	data, err := s.client.Get(ctx, s.snapshotKey(snapshotID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
		}
		return nil, fmt.Errorf("failed to load snapshot from redis: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns all snapshots for a branch, oldest first. Expired
// snapshots still present in the index are skipped.
func (s *RedisSnapshotStore) List(ctx context.Context, branchID string) ([]*store.Snapshot, error) {
	ids, err := s.client.SMembers(ctx, s.branchKey(branchID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for branch %s: %w", branchID, err)
	}
	if len(ids) == 0 {
		return []*store.Snapshot{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.snapshotKey(id))
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshots: %w", err)
	}

	var snapshots []*store.Snapshot
	for _, result := range results {
		strData, ok := result.(string)
		if !ok {
			continue
		}
		var snapshot store.Snapshot
		if err := json.Unmarshal([]byte(strData), &snapshot); err != nil {
			continue
		}
		snapshots = append(snapshots, &snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// Delete removes a snapshot and its index entry.
func (s *RedisSnapshotStore) Delete(ctx context.Context, snapshotID string) error {
	snapshot, err := s.Load(ctx, snapshotID)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.snapshotKey(snapshotID))
	if snapshot.BranchID != "" {
		pipe.SRem(ctx, s.branchKey(snapshot.BranchID), snapshotID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Clear removes all snapshots for a branch.
func (s *RedisSnapshotStore) Clear(ctx context.Context, branchID string) error {
	branchKey := s.branchKey(branchID)
	ids, err := s.client.SMembers(ctx, branchKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get snapshots for clearing: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.snapshotKey(id))
	}
	pipe.Del(ctx, branchKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

var _ store.SnapshotStore = (*RedisSnapshotStore)(nil)
