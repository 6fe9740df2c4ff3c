package usecase

import (
	"sync"
	"time"
)

// SearchSequencer orders concurrent search requests so only the newest
// result is ever applied. Each request takes a token from Next before it
// starts; when its result arrives it offers the token to Accept, which admits
// it only while it is still the latest issued token. Results from superseded
// requests are dropped no matter the order responses arrive in.
type SearchSequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues the token for a new search request.
func (s *SearchSequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept reports whether the result carrying seq may be applied. A token is
// accepted at most once and only while no newer token has been issued.
func (s *SearchSequencer) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued || seq <= s.applied {
		return false
	}
	s.applied = seq
	return true
}

const defaultSearchDelay = 300 * time.Millisecond

// SearchDebouncer delays a search until input has settled. Each Trigger call
// resets the timer, so only the last call within the delay window fires.
type SearchDebouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewSearchDebouncer constructs a debouncer; a non-positive delay falls back
// to 300ms.
func NewSearchDebouncer(delay time.Duration) *SearchDebouncer {
	if delay <= 0 {
		delay = defaultSearchDelay
	}
	return &SearchDebouncer{delay: delay}
}

// Trigger schedules fn after the settle delay, cancelling any pending call.
func (d *SearchDebouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
