package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telvana/fleet-console/internal/core/port"
)

var errWindowNotPositive = errors.New("rate limit window must be positive")

// RateLimitStore backs the sliding-window limiter on mutating console
// endpoints. Attempts live in one sorted set per identifier, scored by their
// nanosecond timestamp, so trimming and counting reduce to range operations.
type RateLimitStore struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

// NewRateLimitStore constructs a RateLimitStore. The retention TTL bounds how
// long an idle identifier's set survives; it should exceed the widest window
// the limiter enforces.
func NewRateLimitStore(client *redis.Client, keyPrefix string, retention time.Duration) *RateLimitStore {
	if keyPrefix == "" {
		keyPrefix = "fleet:rate-limit"
	}
	if retention <= 0 {
		retention = 15 * time.Minute
	}
	return &RateLimitStore{client: client, keyPrefix: keyPrefix, retention: retention}
}

// RecordAttempt appends one attempt for the identifier and refreshes the
// set's retention TTL.
func (s *RateLimitStore) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	key := s.key(identifier)
	nanos := at.UnixNano()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(nanos),
			Member: strconv.FormatInt(nanos, 10),
		})
		pipe.Expire(ctx, key, s.retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record attempt: %w", err)
	}
	return nil
}

// CountAttempts returns how many attempts fall inside the window ending at
// the reference time.
func (s *RateLimitStore) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errWindowNotPositive
	}

	lo, hi := windowBounds(window, reference)
	count, err := s.client.ZCount(ctx, s.key(identifier), lo, hi).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count attempts: %w", err)
	}
	return int(count), nil
}

// TrimWindow drops attempts that slid out of the window ending at the
// reference time.
func (s *RateLimitStore) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	if window <= 0 {
		return errWindowNotPositive
	}

	lo, _ := windowBounds(window, reference)
	if err := s.client.ZRemRangeByScore(ctx, s.key(identifier), "-inf", "("+lo).Err(); err != nil {
		return fmt.Errorf("redis trim window: %w", err)
	}
	return nil
}

// OldestAttempt returns the earliest attempt still inside the window, which
// determines when the limiter's window resets for this identifier.
func (s *RateLimitStore) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	if window <= 0 {
		return time.Time{}, false, errWindowNotPositive
	}

	lo, hi := windowBounds(window, reference)
	members, err := s.client.ZRangeByScore(ctx, s.key(identifier), &redis.ZRangeBy{
		Min:   lo,
		Max:   hi,
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis oldest attempt: %w", err)
	}
	if len(members) == 0 {
		return time.Time{}, false, nil
	}

	nanos, err := strconv.ParseInt(members[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse attempt timestamp %q: %w", members[0], err)
	}
	return time.Unix(0, nanos), true, nil
}

func (s *RateLimitStore) key(identifier string) string {
	return s.keyPrefix + ":" + identifier
}

// windowBounds renders the inclusive score range covering the window that
// ends at the reference time.
func windowBounds(window time.Duration, reference time.Time) (string, string) {
	lo := strconv.FormatInt(reference.Add(-window).UnixNano(), 10)
	hi := strconv.FormatInt(reference.UnixNano(), 10)
	return lo, hi
}

var _ port.RateLimitStore = (*RateLimitStore)(nil)
