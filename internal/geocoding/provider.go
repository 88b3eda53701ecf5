// Package geocoding resolves "<city>, <country>" queries to coordinates for
// the entry form.
//
// NominatimProvider talks to OpenStreetMap's Nominatim API. CachedProvider and
// InstrumentedProvider wrap any Provider with caching and Prometheus metrics.
// Every failure a caller can see wraps domain.ErrLookupFailed.
package geocoding

import (
	"context"
	"math"
	"strings"

	"github.com/pkordes/travel-journal/internal/domain"
)

// Provider is an interface that defines a method for geocoding a query.
// Only the first match is returned.
type Provider interface {
	Geocode(ctx context.Context, query string) (*domain.Coordinates, error)
}

// NormalizeQuery lower-cases query and collapses whitespace so equivalent
// queries share a cache key.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// round4 rounds v to four decimal places (about 11 m at the equator).
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
