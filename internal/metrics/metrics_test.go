package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-journal/internal/metrics"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.GeocodeLookups.WithLabelValues("found").Inc()
	m.GeocodeCache.WithLabelValues("redis", "hit").Add(2)
	m.LocationsAppended.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeLookups.WithLabelValues("found")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("redis", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LocationsAppended), 0)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)

	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}

func TestObserveFuncs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.ObserveLocations(func() float64 { return 12 })
	m.ObserveCueDrops(func() uint64 { return 3 })

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[f.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[f.GetName()] = metric.GetCounter().GetValue()
			}
		}
	}
	assert.InDelta(t, 12, values["travel_journal_locations"], 0)
	assert.InDelta(t, 3, values["travel_journal_cues_dropped_total"], 0)
}
