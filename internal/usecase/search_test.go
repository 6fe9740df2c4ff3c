package usecase

import (
	"sync"
	"testing"
	"time"
)

func TestSearchSequencerLatestWins(t *testing.T) {
	var seq SearchSequencer

	first := seq.Next()
	second := seq.Next()

	if seq.Accept(first) {
		t.Fatal("stale sequence number must be rejected")
	}
	if !seq.Accept(second) {
		t.Fatal("latest sequence number must be accepted")
	}
	if seq.Accept(second) {
		t.Fatal("a sequence number must only be accepted once")
	}

	third := seq.Next()
	if !seq.Accept(third) {
		t.Fatal("next issued sequence must be accepted")
	}
}

func TestSearchDebouncerCollapsesBursts(t *testing.T) {
	debouncer := NewSearchDebouncer(20 * time.Millisecond)
	defer debouncer.Stop()

	var (
		mu    sync.Mutex
		fired []string
	)
	record := func(term string) func() {
		return func() {
			mu.Lock()
			fired = append(fired, term)
			mu.Unlock()
		}
	}

	debouncer.Trigger(record("a"))
	debouncer.Trigger(record("ab"))
	debouncer.Trigger(record("abc"))

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("fired %d times, want 1: %v", len(fired), fired)
	}
	if fired[0] != "abc" {
		t.Fatalf("fired %q, want abc", fired[0])
	}
}

func TestSearchDebouncerStopCancelsPending(t *testing.T) {
	debouncer := NewSearchDebouncer(20 * time.Millisecond)

	var (
		mu    sync.Mutex
		count int
	)
	debouncer.Trigger(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	debouncer.Stop()

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatalf("callback fired %d times after Stop", count)
	}
}
