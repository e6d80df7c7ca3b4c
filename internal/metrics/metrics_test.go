package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.ObserveSlice(ResultOK, 20*time.Millisecond, 50, 2)
	m.ObserveSlice(ResultCancelled, time.Millisecond, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Slices.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Slices.WithLabelValues(ResultCancelled)))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.Layers))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Warnings))

	n, err := testutil.GatherAndCount(reg, "meshslicer_slice_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetricsDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SessionOpened()
		m.SessionClosed()
		m.ObserveSlice(ResultError, time.Second, 1, 1)
	})
}
