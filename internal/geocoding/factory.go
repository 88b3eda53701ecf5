package geocoding

import (
	"fmt"
	"log/slog"

	"github.com/pkordes/travel-journal/internal/metrics"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
const ProviderTypeNominatim ProviderType = "nominatim"

// CacheBackend names where resolved lookups are cached.
type CacheBackend string

const (
	CacheNone     CacheBackend = "none"
	CacheRedis    CacheBackend = "redis"
	CachePostgres CacheBackend = "postgres"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type      ProviderType
	Nominatim NominatimConfig
	Cache     Cache            // defaults to NoCache
	Metrics   *metrics.Metrics // optional
	Logger    *slog.Logger
}

// NewProvider builds the provider named by config.Type and wraps it with
// metrics (when config.Metrics is set) and the cache.
// Cache hits are not counted as provider lookups.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	var p Provider
	switch config.Type {
	case ProviderTypeNominatim, "":
		nc := config.Nominatim
		if nc.Logger == nil {
			nc.Logger = config.Logger
		}
		p = NewNominatimProvider(nc)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}

	if config.Metrics != nil {
		p = NewInstrumentedProvider(p, string(ProviderTypeNominatim), config.Metrics)
	}

	cache := config.Cache
	if cache == nil {
		cache = NoCache{}
	}
	return NewCachedProvider(p, cache, config.Metrics, config.Logger), nil
}
