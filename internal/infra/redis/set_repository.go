package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"study-session-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// SetLoader fetches study sets from a backing store (e.g., Postgres).
type SetLoader interface {
	LoadSet(ctx context.Context, setID string) (domain.Set, error)
}

// SetRepository caches sets in Redis and falls back to a loader on cache miss.
// Cards are stored as: HSET set:{setID}:cards {cardID} {card JSON}
// Metadata as:         HSET set:{setID}:meta  title {title}
type SetRepository struct {
	client *redis.Client
	loader SetLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewSetRepository(client *redis.Client, loader SetLoader, ttl time.Duration) *SetRepository {
	return &SetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *SetRepository) GetSet(ctx context.Context, setID string) (domain.Set, error) {
	if set, ok := r.fromCache(ctx, setID); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.fromCache(ctx, setID); ok {
			return set, nil
		}

		set, err := r.loader.LoadSet(ctx, setID)
		if err != nil {
			return domain.Set{}, err
		}
		r.store(ctx, set)
		return set, nil
	})
	if err != nil {
		return domain.Set{}, err
	}
	return result.(domain.Set), nil
}

// Invalidate removes the cached copy of a set.
func (r *SetRepository) Invalidate(ctx context.Context, setID string) error {
	return r.client.Del(ctx, r.cardsKey(setID), r.metaKey(setID)).Err()
}

func (r *SetRepository) fromCache(ctx context.Context, setID string) (domain.Set, bool) {
	raw, err := r.client.HGetAll(ctx, r.cardsKey(setID)).Result()
	if err != nil || len(raw) == 0 {
		return domain.Set{}, false
	}

	cards := make([]domain.Card, 0, len(raw))
	for _, payload := range raw {
		var card domain.Card
		if err := json.Unmarshal([]byte(payload), &card); err != nil {
			// a corrupt entry forces a reload from the loader
			return domain.Set{}, false
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Index < cards[j].Index })

	title, _ := r.client.HGet(ctx, r.metaKey(setID), "title").Result()
	return domain.Set{ID: setID, Title: title, Cards: cards}, true
}

// store is best effort; a failed write only costs a reload later.
func (r *SetRepository) store(ctx context.Context, set domain.Set) {
	if len(set.Cards) == 0 {
		return
	}
	cardsKey := r.cardsKey(set.ID)
	metaKey := r.metaKey(set.ID)

	ttl := r.ttlWithJitter()
	pipe := r.client.TxPipeline()
	for _, card := range set.Cards {
		payload, err := json.Marshal(card)
		if err != nil {
			return
		}
		pipe.HSet(ctx, cardsKey, card.ID, payload)
	}
	pipe.HSet(ctx, metaKey, "title", set.Title)
	if ttl > 0 {
		pipe.Expire(ctx, cardsKey, ttl)
		pipe.Expire(ctx, metaKey, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (r *SetRepository) cardsKey(setID string) string {
	return "set:" + setID + ":cards"
}

func (r *SetRepository) metaKey(setID string) string {
	return "set:" + setID + ":meta"
}

func (r *SetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
