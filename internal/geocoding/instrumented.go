package geocoding

import (
	"context"
	"time"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/metrics"
)

// InstrumentedProvider records lookup outcomes and latency for next.
type InstrumentedProvider struct {
	next    Provider
	name    string
	metrics *metrics.Metrics
}

// NewInstrumentedProvider wraps next; name labels the latency histogram.
func NewInstrumentedProvider(next Provider, name string, m *metrics.Metrics) *InstrumentedProvider {
	return &InstrumentedProvider{next: next, name: name, metrics: m}
}

func (p *InstrumentedProvider) Geocode(ctx context.Context, query string) (*domain.Coordinates, error) {
	start := time.Now()
	coords, err := p.next.Geocode(ctx, query)
	p.metrics.GeocodeSeconds.WithLabelValues(p.name).Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.GeocodeLookups.WithLabelValues("failed").Inc()
		return nil, err
	}
	p.metrics.GeocodeLookups.WithLabelValues("found").Inc()
	return coords, nil
}
