// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the journal records into. Handlers and the
// geocoding decorators accept a nil *Metrics and then record nothing.
type Metrics struct {
	// GeocodeLookups counts lookups by outcome: "found" or "failed".
	GeocodeLookups *prometheus.CounterVec
	// GeocodeSeconds is the latency of the geocoding provider.
	GeocodeSeconds *prometheus.HistogramVec
	// GeocodeCache counts cache operations by result: "hit", "miss", "set"
	// or "error".
	GeocodeCache *prometheus.CounterVec
	// LocationsAppended counts locations added through the entry form.
	LocationsAppended prometheus.Counter
	// HTTPSeconds is request latency by method, route pattern and status.
	HTTPSeconds *prometheus.HistogramVec

	reg prometheus.Registerer
}

// NewMetrics creates the collectors and registers them with reg. Pass a fresh
// prometheus.NewRegistry() in tests so registrations do not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GeocodeLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "travel_journal_geocode_lookups_total",
			Help: "Total number of geocode lookups by outcome.",
		}, []string{"result"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_journal_geocode_duration_seconds",
			Help:    "Duration of geocode lookups against the provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		GeocodeCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "travel_journal_geocode_cache_total",
			Help: "Geocode cache operations by backend and result.",
		}, []string{"backend", "result"}),
		LocationsAppended: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "travel_journal_locations_appended_total",
			Help: "Total number of locations added through the entry form.",
		}),
		HTTPSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_journal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		reg: reg,
	}
}

// ObserveLocations exports the current store size, read from count at
// scrape time.
func (m *Metrics) ObserveLocations(count func() float64) {
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "travel_journal_locations",
		Help: "Number of locations currently in the store.",
	}, count)
}

// ObserveCueDrops exports how many sound cues were dropped because the
// renderer did not drain them in time.
func (m *Metrics) ObserveCueDrops(dropped func() uint64) {
	promauto.With(m.reg).NewCounterFunc(prometheus.CounterOpts{
		Name: "travel_journal_cues_dropped_total",
		Help: "Total number of sound cues dropped because the queue was full.",
	}, func() float64 { return float64(dropped()) })
}
