package geocoding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/repo"
)

// PostgresCache is a Cache backed by the geocode_cache table.
type PostgresCache struct {
	repo   repo.GeocodeCacheRepo
	maxAge time.Duration
}

// NewPostgresCache returns a PostgresCache over r. Entries older than maxAge
// are treated as misses; a non-positive maxAge means DefaultCacheTTL.
func NewPostgresCache(r repo.GeocodeCacheRepo, maxAge time.Duration) *PostgresCache {
	if maxAge <= 0 {
		maxAge = DefaultCacheTTL
	}
	return &PostgresCache{repo: r, maxAge: maxAge}
}

func (p *PostgresCache) Get(ctx context.Context, key string) (domain.Coordinates, bool, error) {
	c, err := p.repo.Get(ctx, key, p.maxAge)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocoding.PostgresCache.Get: %w", err)
	}
	return c, true, nil
}

func (p *PostgresCache) Set(ctx context.Context, key string, c domain.Coordinates) error {
	if err := p.repo.Put(ctx, key, c); err != nil {
		return fmt.Errorf("geocoding.PostgresCache.Set: %w", err)
	}
	return nil
}

func (p *PostgresCache) Name() string { return "postgres" }
