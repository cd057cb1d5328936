package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTaskOperation(t *testing.T) {
	m := New()

	m.ObserveTaskOperation("create", "ok")
	m.ObserveTaskOperation("create", "ok")
	m.ObserveTaskOperation("create", "invalid")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TaskOperations.WithLabelValues("create", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TaskOperations.WithLabelValues("create", "invalid")))
}

func TestObserveTaskOperation_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveTaskOperation("get", "ok") })
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.HTTPRequests.WithLabelValues("GET", "/tasks", "200").Inc()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["tasks_http_requests_total"])
	assert.True(t, names["go_goroutines"])
}
