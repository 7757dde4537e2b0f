package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks canonicalization activity. Each gateway owns its own
// Prometheus registry so multiple instances never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	canonicalizations *prometheus.CounterVec
	warnings          prometheus.Counter
	fallbacks         prometheus.Counter
	emits             *prometheus.CounterVec
}

// NewMetrics constructs and registers all gateway collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		canonicalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolcanon",
			Name:      "canonicalizations_total",
			Help:      "Tool documents canonicalized, by detected source format.",
		}, []string{"format"}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "toolcanon",
			Name:      "warnings_total",
			Help:      "Warnings attached to canonicalization results.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "toolcanon",
			Name:      "raw_fallbacks_total",
			Help:      "Canonicalizations that fell back to the raw extractor.",
		}),
		emits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolcanon",
			Name:      "emits_total",
			Help:      "Tool definitions emitted, by target format.",
		}, []string{"target"}),
	}

	m.registry.MustRegister(m.canonicalizations, m.warnings, m.fallbacks, m.emits)

	return m
}

// RecordCanonicalization records one canonicalization outcome.
func (m *Metrics) RecordCanonicalization(format string, warnings int, fellBack bool) {
	m.canonicalizations.WithLabelValues(format).Inc()
	m.warnings.Add(float64(warnings))
	if fellBack {
		m.fallbacks.Inc()
	}
}

// RecordEmit records one emission to a target format.
func (m *Metrics) RecordEmit(target string) {
	m.emits.WithLabelValues(target).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
