package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telvana/fleet-console/internal/core/port"
)

// SnapshotCache stores serialized inventory snapshots in Redis with a short
// TTL. A missing key reads as an empty value, not an error.
type SnapshotCache struct {
	client *redis.Client
}

// NewSnapshotCache constructs a SnapshotCache.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

// Get returns the cached payload for key, or nil when the key is absent.
func (c *SnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return payload, nil
}

// Set stores the payload under key with the provided TTL.
func (c *SnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

// Delete removes the given keys. Deleting absent keys is not an error.
func (c *SnapshotCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete snapshot: %w", err)
	}
	return nil
}

var _ port.SnapshotCache = (*SnapshotCache)(nil)
