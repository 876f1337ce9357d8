package container

import (
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes resolver activity as Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	resolutions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	bindings    *prometheus.GaugeVec
	register    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venus",
			Subsystem: "container",
			Name:      "resolutions_total",
			Help:      "Successful Resolve calls by requested type and lifetime.",
		}, []string{"type", "lifetime"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venus",
			Subsystem: "container",
			Name:      "failures_total",
			Help:      "Failed Register and Resolve calls by error kind.",
		}, []string{"kind"}),
		bindings: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "venus",
			Subsystem: "container",
			Name:      "bindings",
			Help:      "Concrete types known to the resolver by lifetime.",
		}, []string{"lifetime"}),
		register: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "venus",
			Subsystem: "container",
			Name:      "register_duration_seconds",
			Help:      "Time spent in Register, including eager singleton construction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (m *Metrics) observeResolve(t reflect.Type, l Lifetime) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(t.String(), l.String()).Inc()
}

func (m *Metrics) observeFailure(err error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(errorKind(err)).Inc()
}

func (m *Metrics) observeRegister(d time.Duration, reg *registry) {
	if m == nil {
		return
	}
	m.register.Observe(d.Seconds())

	counts := map[Lifetime]int{}
	for _, t := range reg.managed {
		counts[reg.entries[t].lifetime]++
	}
	counts[NotManaged] = len(reg.unmanaged)
	for _, l := range []Lifetime{NotManaged, LifetimeTransient, LifetimeSingleton} {
		m.bindings.WithLabelValues(l.String()).Set(float64(counts[l]))
	}
}
