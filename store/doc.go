// Package store defines branch snapshot persistence. A snapshot is a
// point-in-time copy of a branch transcript; SnapshotStore abstracts
// the backend. Implementations live in the subpackages memory, file,
// sqlite, postgres and redis.
package store
