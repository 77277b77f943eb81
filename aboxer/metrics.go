package aboxer

import (
	"time"

	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for conversion runs.
type Metrics struct {
	axiomsProcessed    *prometheus.CounterVec   // by pass
	classesBlacklisted prometheus.Counter       // distinct classes
	assertions         *prometheus.CounterVec   // by kind (class/property)
	individuals        *prometheus.CounterVec   // by kind (named/anonymous)
	passDuration       *prometheus.HistogramVec // by pass
}

// NewMetrics creates and registers conversion metrics. A nil registry
// disables metrics and returns nil; all recording methods accept a nil
// receiver.
func NewMetrics(registry *metric.MetricsRegistry) (*Metrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &Metrics{
		axiomsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aboxer",
			Subsystem: "conversion",
			Name:      "axioms_processed_total",
			Help:      "Total number of axioms processed, by pass",
		}, []string{"pass"}),

		classesBlacklisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aboxer",
			Subsystem: "conversion",
			Name:      "classes_blacklisted_total",
			Help:      "Total number of classes that could not be turned into individuals",
		}),

		assertions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aboxer",
			Subsystem: "conversion",
			Name:      "assertions_total",
			Help:      "Total number of assertions emitted, by kind",
		}, []string{"kind"}),

		individuals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aboxer",
			Subsystem: "conversion",
			Name:      "individuals_total",
			Help:      "Total number of individuals introduced, by kind",
		}, []string{"kind"}),

		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aboxer",
			Subsystem: "conversion",
			Name:      "pass_duration_seconds",
			Help:      "Duration of a conversion pass in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		}, []string{"pass"}),
	}

	if err := registry.RegisterCounterVec("aboxer", "axioms_processed", m.axiomsProcessed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("aboxer", "classes_blacklisted", m.classesBlacklisted); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("aboxer", "assertions", m.assertions); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("aboxer", "individuals", m.individuals); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogramVec("aboxer", "pass_duration", m.passDuration); err != nil {
		return nil, err
	}

	return m, nil
}

const (
	passBlacklist  = "blacklist"
	passAssertions = "assertions"
)

func (m *Metrics) recordPass(pass string, axioms int, duration time.Duration) {
	if m == nil {
		return
	}
	m.axiomsProcessed.WithLabelValues(pass).Add(float64(axioms))
	m.passDuration.WithLabelValues(pass).Observe(duration.Seconds())
}

func (m *Metrics) recordBlacklist(classes int) {
	if m == nil {
		return
	}
	m.classesBlacklisted.Add(float64(classes))
}

func (m *Metrics) recordStats(s Stats) {
	if m == nil {
		return
	}
	m.assertions.WithLabelValues("class").Add(float64(s.ClassAssertions))
	m.assertions.WithLabelValues("property").Add(float64(s.PropertyAssertions))
	m.individuals.WithLabelValues("named").Add(float64(s.NewIndividuals))
	m.individuals.WithLabelValues("anonymous").Add(float64(s.AnonymousIndividuals))
}
