package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/travel-journal/internal/domain"
)

const redisKeyPrefix = "geocode:"

// RedisCache is a Cache backed by Redis string keys with a TTL.
type RedisCache struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a RedisCache using client. A non-positive ttl means
// DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{c: client, ttl: ttl}
}

type redisEntry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (r *RedisCache) Get(ctx context.Context, key string) (domain.Coordinates, bool, error) {
	v, err := r.c.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocoding.RedisCache.Get: %w", err)
	}
	var e redisEntry
	if err := json.Unmarshal(v, &e); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocoding.RedisCache.Get: %w", err)
	}
	return domain.Coordinates{Latitude: e.Lat, Longitude: e.Lng}, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, c domain.Coordinates) error {
	b, err := json.Marshal(redisEntry{Lat: c.Latitude, Lng: c.Longitude})
	if err != nil {
		return fmt.Errorf("geocoding.RedisCache.Set: %w", err)
	}
	if err := r.c.Set(ctx, redisKeyPrefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("geocoding.RedisCache.Set: %w", err)
	}
	return nil
}

func (r *RedisCache) Name() string { return "redis" }
