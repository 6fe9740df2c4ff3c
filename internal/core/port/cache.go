package port

import (
	"context"
	"time"
)

// SnapshotCache stores short-lived JSON snapshots of the normalized upstream
// collections. Entries are rebuilt-not-mutated: a refresh overwrites the key,
// a mutation deletes it.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
