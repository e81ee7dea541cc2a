package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	m := New()
	m.CacheRequests.WithLabelValues("dashboard", "hit").Inc()
	m.CacheInvalidations.WithLabelValues("goal", "ok").Add(2)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["healthtrack_cache_requests_total"])
	assert.True(t, names["healthtrack_cache_invalidations_total"])
	assert.True(t, names["go_goroutines"])
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheInvalidations.WithLabelValues("goal", "ok")))
}

func TestNewIsIsolated(t *testing.T) {
	a, b := New(), New()
	a.HTTPRequests.WithLabelValues("GET", "/healthz", "200").Inc()
	assert.Equal(t, 0, testutil.CollectAndCount(b.HTTPRequests))
}
