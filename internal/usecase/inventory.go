package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

const snapshotCacheKey = "fleet:inventory:snapshot"

// Snapshot is one coherent view of the four upstream collections. The four
// fetches are issued concurrently and joined before the snapshot is handed
// out, so index building never sees partially loaded data.
type Snapshot struct {
	Users        []domain.User        `json:"users"`
	Phones       []domain.Phone       `json:"phones"`
	Sims         []domain.SimCard     `json:"sims"`
	Attributions []domain.Attribution `json:"attributions"`
}

// Index builds the assignment index for this snapshot.
func (s *Snapshot) Index() AssignmentIndex {
	return BuildAssignmentIndex(s.Attributions, s.Phones, s.Sims)
}

// InventoryService loads normalized inventory snapshots, optionally backed by
// a short-TTL cache that mutations invalidate.
type InventoryService struct {
	api      port.InventoryReader
	cache    port.SnapshotCache
	cacheKey string
	ttl      time.Duration
	logger   *zap.Logger
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(api port.InventoryReader, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{api: api, cacheKey: snapshotCacheKey, logger: logger}
}

// WithSnapshotCache enables snapshot caching with the provided TTL.
func (s *InventoryService) WithSnapshotCache(cache port.SnapshotCache, ttl time.Duration) *InventoryService {
	s.cache = cache
	if ttl > 0 {
		s.ttl = ttl
	} else {
		s.ttl = 30 * time.Second
	}
	return s
}

// ScopeCacheToToken namespaces cached snapshots by a digest of the upstream
// token, so one session is never served inventory fetched with another
// session's credentials. The raw token never appears in the key.
func (s *InventoryService) ScopeCacheToToken(token string) *InventoryService {
	if token != "" {
		sum := sha256.Sum256([]byte(token))
		s.cacheKey = snapshotCacheKey + ":" + hex.EncodeToString(sum[:8])
	}
	return s
}

// LoadSnapshot returns the cached snapshot when fresh, otherwise fetches all
// four collections concurrently and waits for every one before returning.
func (s *InventoryService) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var (
		snapshot Snapshot
		wg       sync.WaitGroup
		errs     [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		snapshot.Users, errs[0] = s.api.FetchAllUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Phones, errs[1] = s.api.FetchAllPhones(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Sims, errs[2] = s.api.FetchAllSimCards(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Attributions, errs[3] = s.api.FetchAllAttributions(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s.toCache(ctx, &snapshot)
	return &snapshot, nil
}

// Invalidate drops the cached snapshot so the next load re-fetches upstream
// state. Called after every successful mutation.
func (s *InventoryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey); err != nil {
		s.logger.Warn("failed to invalidate inventory snapshot", zap.Error(err))
	}
}

func (s *InventoryService) fromCache(ctx context.Context) *Snapshot {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, s.cacheKey)
	if err != nil || len(raw) == 0 {
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("discarding unreadable inventory snapshot", zap.Error(err))
		return nil
	}
	return &snapshot
}

func (s *InventoryService) toCache(ctx context.Context, snapshot *Snapshot) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("failed to encode inventory snapshot", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey, raw, s.ttl); err != nil {
		s.logger.Warn("failed to cache inventory snapshot", zap.Error(err))
	}
}
