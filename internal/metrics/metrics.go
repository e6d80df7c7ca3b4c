// Package metrics holds the Prometheus collectors reported by the session
// manager. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Slice results used as the "result" label.
const (
	ResultOK        = "ok"
	ResultCancelled = "cancelled"
	ResultError     = "error"
)

// Metrics groups the slicer collectors.
type Metrics struct {
	Sessions      prometheus.Gauge
	Slices        *prometheus.CounterVec
	SliceDuration prometheus.Histogram
	Layers        prometheus.Counter
	Warnings      prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meshslicer_sessions",
			Help: "Number of live slicer sessions",
		}),
		Slices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meshslicer_slices_total",
				Help: "Total number of slice runs by result",
			},
			[]string{"result"},
		),
		SliceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "meshslicer_slice_duration_seconds",
			Help:    "Duration of slice runs",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
		Layers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meshslicer_layers_total",
			Help: "Total number of layers produced",
		}),
		Warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meshslicer_layer_warnings_total",
			Help: "Total number of per-layer topology warnings",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Sessions, m.Slices, m.SliceDuration, m.Layers, m.Warnings)
	}
	return m
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.Sessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.Sessions.Dec()
	}
}

// ObserveSlice records one finished slice run.
func (m *Metrics) ObserveSlice(result string, elapsed time.Duration, layers, warnings int) {
	if m == nil {
		return
	}
	m.Slices.WithLabelValues(result).Inc()
	m.SliceDuration.Observe(elapsed.Seconds())
	m.Layers.Add(float64(layers))
	m.Warnings.Add(float64(warnings))
}
