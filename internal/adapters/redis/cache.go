package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/domain"
)

type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, _ := json.Marshal(v)
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

// SetNX stores v only when key is absent. Reports whether it was written.
func (r *Cache) SetNX(ctx context.Context, key string, v any, ttlSec int) (bool, error) {
	b, _ := json.Marshal(v)
	observability.ObserveCache("redis", "set")
	return r.c.SetNX(ctx, key, b, time.Duration(ttlSec)*time.Second).Result()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

// DetailCache keeps venue details under "detail:<id>". The first write for an id wins
// until the TTL expires. Redis failures degrade to cache misses.
type DetailCache struct {
	c   *Cache
	ttl int
}

func NewDetailCache(c *Cache, ttlSec int) *DetailCache {
	if ttlSec <= 0 {
		ttlSec = 3600
	}
	return &DetailCache{c: c, ttl: ttlSec}
}

func detailKey(id string) string { return "detail:" + id }

func (d *DetailCache) Get(ctx context.Context, id string) (domain.Venue, bool) {
	var v domain.Venue
	ok, err := d.c.Get(ctx, detailKey(id), &v)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("detail cache read failed")
		return domain.Venue{}, false
	}
	return v, ok
}

func (d *DetailCache) Put(ctx context.Context, id string, v domain.Venue) {
	if _, err := d.c.SetNX(ctx, detailKey(id), v, d.ttl); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("detail cache write failed")
	}
}
