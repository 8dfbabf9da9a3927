package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"study-session-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// SetLoader fetches study sets from a backing store (e.g., Postgres).
type SetLoader interface {
	LoadSet(ctx context.Context, setID string) (domain.Set, error)
}

// SetRepository caches sets with TTL to avoid repeated DB hits.
type SetRepository struct {
	loader SetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.Set
	expiresAt time.Time
}

func NewSetRepository(loader SetLoader, ttl time.Duration) *SetRepository {
	return &SetRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *SetRepository) GetSet(ctx context.Context, setID string) (domain.Set, error) {
	if set, ok := r.cached(setID, r.clock()); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		now := r.clock()
		if set, ok := r.cached(setID, now); ok {
			return set, nil
		}

		set, err := r.loader.LoadSet(ctx, setID)
		if err != nil {
			return domain.Set{}, err
		}

		r.mu.Lock()
		r.cache[setID] = cachedSet{
			set:       set,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.Set{}, err
	}
	return result.(domain.Set), nil
}

// Invalidate drops a cached set so the next read reloads it.
func (r *SetRepository) Invalidate(setID string) {
	r.mu.Lock()
	delete(r.cache, setID)
	r.mu.Unlock()
}

func (r *SetRepository) cached(setID string, now time.Time) (domain.Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[setID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Set{}, false
	}
	return entry.set, true
}

func (r *SetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticSetLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticSetLoader struct {
	sets map[string]domain.Set
}

func NewStaticSetLoader(sets map[string]domain.Set) *StaticSetLoader {
	return &StaticSetLoader{sets: sets}
}

func (l *StaticSetLoader) LoadSet(_ context.Context, setID string) (domain.Set, error) {
	if set, ok := l.sets[setID]; ok {
		return set, nil
	}
	return domain.Set{}, domain.ErrSetNotFound
}
