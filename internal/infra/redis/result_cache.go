package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/hieudo2808/lms-project-sub000/internal/domain"
)

// ResultCache is a read-through cache for terminal attempt results, stored as
// JSON under attempt:result:{id}. Only graded or expired attempts go through
// it; those never change, so staleness is not a concern the way it is for
// quiz definitions (which are never cached at all).
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ResultCache) GetResult(ctx context.Context, attemptID uuid.UUID, load func(context.Context) (domain.AttemptResultView, error)) (domain.AttemptResultView, error) {
	key := c.key(attemptID)

	if view, ok := c.lookup(ctx, key); ok {
		return view, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if view, ok := c.lookup(ctx, key); ok {
			return view, nil
		}

		view, err := load(ctx)
		if err != nil {
			return domain.AttemptResultView{}, err
		}

		if data, err := json.Marshal(view); err == nil {
			// best-effort write; the loader remains the source of truth
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return view, nil
	})
	if err != nil {
		return domain.AttemptResultView{}, err
	}
	return result.(domain.AttemptResultView), nil
}

func (c *ResultCache) lookup(ctx context.Context, key string) (domain.AttemptResultView, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.AttemptResultView{}, false
	}
	var view domain.AttemptResultView
	if err := json.Unmarshal(data, &view); err != nil {
		return domain.AttemptResultView{}, false
	}
	return view, true
}

func (c *ResultCache) key(attemptID uuid.UUID) string {
	return "attempt:result:" + attemptID.String()
}

func (c *ResultCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
