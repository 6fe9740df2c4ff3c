package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

type fakeSnapshotCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	deletes int
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{entries: make(map[string][]byte)}
}

func (c *fakeSnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *fakeSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *fakeSnapshotCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.deletes++
	return nil
}

var _ port.SnapshotCache = (*fakeSnapshotCache)(nil)

type countingFleetAPI struct {
	fakeFleetAPI

	mu         sync.Mutex
	fetchCalls int
}

func (c *countingFleetAPI) FetchAllUsers(ctx context.Context) ([]domain.User, error) {
	c.mu.Lock()
	c.fetchCalls++
	c.mu.Unlock()
	return c.fakeFleetAPI.FetchAllUsers(ctx)
}

func TestLoadSnapshotJoinsAllCollections(t *testing.T) {
	api := &fakeFleetAPI{
		users:        []domain.User{{ID: "u-1"}},
		phones:       []domain.Phone{{ID: "phone-1"}},
		sims:         []domain.SimCard{{ID: "sim-1"}},
		attributions: []domain.Attribution{{ID: "a-1", UserID: "u-1"}},
	}
	service := NewInventoryService(api, nil)

	snapshot, err := service.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot returned error: %v", err)
	}

	if len(snapshot.Users) != 1 || len(snapshot.Phones) != 1 || len(snapshot.Sims) != 1 || len(snapshot.Attributions) != 1 {
		t.Fatalf("incomplete snapshot: %+v", snapshot)
	}
}

func TestLoadSnapshotUsesCacheUntilInvalidated(t *testing.T) {
	api := &countingFleetAPI{
		fakeFleetAPI: fakeFleetAPI{users: []domain.User{{ID: "u-1"}}},
	}
	cache := newFakeSnapshotCache()
	service := NewInventoryService(api, nil).WithSnapshotCache(cache, time.Minute)

	if _, err := service.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if _, err := service.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	api.mu.Lock()
	calls := api.fetchCalls
	api.mu.Unlock()
	if calls != 1 {
		t.Fatalf("upstream fetches = %d, want 1 (second load should hit the cache)", calls)
	}

	service.Invalidate(context.Background())
	if cache.deletes != 1 {
		t.Fatalf("cache deletes = %d, want 1", cache.deletes)
	}

	if _, err := service.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("post-invalidate load failed: %v", err)
	}
	api.mu.Lock()
	calls = api.fetchCalls
	api.mu.Unlock()
	if calls != 2 {
		t.Fatalf("upstream fetches = %d, want 2 after invalidation", calls)
	}
}

func TestSnapshotCacheIsScopedPerToken(t *testing.T) {
	cache := newFakeSnapshotCache()

	apiA := &countingFleetAPI{fakeFleetAPI: fakeFleetAPI{users: []domain.User{{ID: "u-a"}}}}
	apiB := &countingFleetAPI{fakeFleetAPI: fakeFleetAPI{users: []domain.User{{ID: "u-b"}}}}

	serviceA := NewInventoryService(apiA, nil).WithSnapshotCache(cache, time.Minute).ScopeCacheToToken("token-a")
	serviceB := NewInventoryService(apiB, nil).WithSnapshotCache(cache, time.Minute).ScopeCacheToToken("token-b")

	if _, err := serviceA.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("first session load failed: %v", err)
	}

	snapshot, err := serviceB.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("second session load failed: %v", err)
	}
	apiB.mu.Lock()
	callsB := apiB.fetchCalls
	apiB.mu.Unlock()
	if callsB != 1 {
		t.Fatalf("second session fetches = %d, want 1 (must not read another session's cache entry)", callsB)
	}
	if len(snapshot.Users) != 1 || snapshot.Users[0].ID != "u-b" {
		t.Fatalf("second session snapshot users = %+v, want its own data", snapshot.Users)
	}

	// Same token, fresh service: the cached entry is reused.
	serviceA2 := NewInventoryService(apiA, nil).WithSnapshotCache(cache, time.Minute).ScopeCacheToToken("token-a")
	if _, err := serviceA2.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("repeat session load failed: %v", err)
	}
	apiA.mu.Lock()
	callsA := apiA.fetchCalls
	apiA.mu.Unlock()
	if callsA != 1 {
		t.Fatalf("first session fetches = %d, want 1 (same token reuses the cache)", callsA)
	}
}
