package redis

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitStore_RecordAndCount(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewRateLimitStore(client, "", 2*time.Minute)

	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if err := store.RecordAttempt(ctx, "actor-1", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := store.CountAttempts(ctx, "actor-1", time.Minute, now.Add(3*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	remaining := server.TTL("fleet:rate-limit:actor-1")
	if remaining <= 0 || remaining > 2*time.Minute {
		t.Fatalf("unexpected ttl %v", remaining)
	}
}

func TestRateLimitStore_TrimWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, "", 0)

	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.RecordAttempt(ctx, "actor-1", now.Add(-2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := store.RecordAttempt(ctx, "actor-1", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := store.TrimWindow(ctx, "actor-1", time.Minute, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := store.CountAttempts(ctx, "actor-1", 5*time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after trim = %d, want 1", count)
	}
}

func TestRateLimitStore_OldestAttempt(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, "", 0)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	oldest := now.Add(-30 * time.Second)

	if err := store.RecordAttempt(ctx, "actor-1", oldest); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := store.RecordAttempt(ctx, "actor-1", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	got, found, err := store.OldestAttempt(ctx, "actor-1", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !found {
		t.Fatal("expected an attempt inside the window")
	}
	if !got.Equal(oldest) {
		t.Fatalf("oldest = %v, want %v", got, oldest)
	}

	_, found, err = store.OldestAttempt(ctx, "actor-2", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if found {
		t.Fatal("expected no attempts for unknown identifier")
	}
}

func TestRateLimitStore_RejectsNonPositiveWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, "", 0)

	if _, err := store.CountAttempts(context.Background(), "actor-1", 0, time.Now()); err == nil {
		t.Fatal("expected error for zero window")
	}
	if err := store.TrimWindow(context.Background(), "actor-1", 0, time.Now()); err == nil {
		t.Fatal("expected error for zero window")
	}
}
