package driver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "branchsim"
	driverSubsystem  = "driver"
)

// Metrics holds the Prometheus metrics of playout driving.
//
// All operations are thread-safe; one Metrics may be shared by every
// driver of a batch.
type Metrics struct {
	// ResolutionsTotal counts resolved nodes.
	// Labels: kind (decision, chance), source (random, scripted, replay)
	ResolutionsTotal *prometheus.CounterVec

	// PlayoutsTotal counts finished playouts.
	// Labels: status (won, draw, aborted, failed)
	PlayoutsTotal *prometheus.CounterVec

	// PlayoutSteps observes the number of resolutions per playout.
	PlayoutSteps prometheus.Histogram

	// ErrorsTotal counts driver errors by code.
	// Labels: code
	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the driver metrics with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: driverSubsystem,
				Name:      "resolutions_total",
				Help:      "Total resolved decision and chance nodes",
			},
			[]string{"kind", "source"},
		),
		PlayoutsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: driverSubsystem,
				Name:      "playouts_total",
				Help:      "Total finished playouts by status",
			},
			[]string{"status"},
		),
		PlayoutSteps: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: driverSubsystem,
				Name:      "playout_steps",
				Help:      "Resolutions per playout",
				Buckets:   prometheus.ExponentialBuckets(4, 2, 10),
			},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: driverSubsystem,
				Name:      "errors_total",
				Help:      "Total driver errors by code",
			},
			[]string{"code"},
		),
	}
}

// RecordResolution increments the resolution counter.
func (m *Metrics) RecordResolution(kind, source string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(kind, source).Inc()
}

// RecordPlayout records a finished playout and its step count.
func (m *Metrics) RecordPlayout(status string, steps int64) {
	if m == nil {
		return
	}
	m.PlayoutsTotal.WithLabelValues(status).Inc()
	m.PlayoutSteps.Observe(float64(steps))
}

// RecordError increments the error counter for code.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(code).Inc()
}
