package sorosan

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsUnregistered(t *testing.T) {
	m := NewMetrics(nil)
	m.polls.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.polls))

	// A second set on the same process must not collide.
	NewMetrics(nil)
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newFakeService()
	svc.simulate = simulation(NewU32(1), 10)
	c := newTestClient(t, svc, WithRegisterer(reg))

	_, err := c.CallScVal(context.Background(), MustParseAddress(testContract), "get")
	require.NoError(t, err)

	svc.simulate = func(string) (*SimulateResult, error) { return &SimulateResult{Error: "boom"}, nil }
	_, err = c.CallScVal(context.Background(), MustParseAddress(testContract), "get")
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.simulations.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.simulations.WithLabelValues("failed")))

	n, err := testutil.GatherAndCount(reg, "sorosan_simulations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
