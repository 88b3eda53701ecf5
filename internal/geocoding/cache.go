package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/metrics"
)

// DefaultCacheTTL is how long a resolved query stays cached.
// Place coordinates practically never change.
const DefaultCacheTTL = 30 * 24 * time.Hour

// flightTimeout bounds a shared upstream lookup. The flight outlives the
// caller that started it, so it cannot borrow that caller's deadline.
const flightTimeout = 15 * time.Second

// Cache stores resolved queries by normalised key.
type Cache interface {
	// Get returns the cached coordinates and true on a hit.
	Get(ctx context.Context, key string) (domain.Coordinates, bool, error)
	Set(ctx context.Context, key string, c domain.Coordinates) error
	// Name labels the backend in logs and metrics.
	Name() string
}

// CachedProvider wraps a Provider with a Cache. Identical concurrent lookups
// share one upstream call. Cache failures are logged and otherwise ignored;
// only successful lookups are cached.
type CachedProvider struct {
	next    Provider
	cache   Cache
	group   singleflight.Group
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCachedProvider returns next wrapped with cache.
func NewCachedProvider(next Provider, cache Cache, m *metrics.Metrics, log *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, metrics: m, log: log}
}

func (p *CachedProvider) Geocode(ctx context.Context, query string) (*domain.Coordinates, error) {
	key := NormalizeQuery(query)
	backend := p.cache.Name()

	c, ok, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		p.observe(backend, "error")
		p.log.WarnContext(ctx, "geocode cache get failed", "backend", backend, "key", key, "error", err)
	case ok:
		p.observe(backend, "hit")
		return &c, nil
	default:
		p.observe(backend, "miss")
	}

	ch := p.group.DoChan(key, func() (any, error) {
		// Callers may give up while others still wait on the same flight.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()

		coords, err := p.next.Geocode(fctx, query)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(fctx, key, *coords); err != nil {
			p.observe(backend, "error")
			p.log.WarnContext(fctx, "geocode cache set failed", "backend", backend, "key", key, "error", err)
		} else {
			p.observe(backend, "set")
		}
		return coords, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("geocoding.CachedProvider.Geocode: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("geocoding.CachedProvider.Geocode: %w", res.Err)
		}
		out := *res.Val.(*domain.Coordinates)
		return &out, nil
	}
}

func (p *CachedProvider) observe(backend, result string) {
	if p.metrics != nil {
		p.metrics.GeocodeCache.WithLabelValues(backend, result).Inc()
	}
}

// NoCache never hits. It still lets CachedProvider collapse concurrent
// lookups of the same query.
type NoCache struct{}

func (NoCache) Get(context.Context, string) (domain.Coordinates, bool, error) {
	return domain.Coordinates{}, false, nil
}
func (NoCache) Set(context.Context, string, domain.Coordinates) error { return nil }
func (NoCache) Name() string                                         { return "none" }
