package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// PrometheusRecorder records fulfillment metrics into a private Prometheus
// registry served over HTTP. It is used when the metrics backend is
// "prometheus" instead of OTLP push.
//
// Safe for concurrent use.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	transitionsTotal   *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	documentsTotal     *prometheus.CounterVec
}

// NewPrometheusRecorder creates a recorder with Go runtime and process
// collectors registered alongside the fulfillment metrics.
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	r := &PrometheusRecorder{registry: prometheus.NewRegistry()}

	r.transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fulfillment",
		Name:      "transitions_total",
		Help:      "Fulfillment transitions by action and outcome.",
	}, []string{"action", "outcome"})

	r.transitionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "fulfillment",
		Name:      "transition_duration_seconds",
		Help:      "Fulfillment transition latency in seconds.",
		Buckets:   TransitionDurationBuckets,
	}, []string{"action", "outcome"})

	r.documentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fulfillment",
		Name:      "documents_total",
		Help:      "Document render attempts by type and outcome.",
	}, []string{"document_type", "outcome"})

	r.registry.MustRegister(
		r.transitionsTotal,
		r.transitionDuration,
		r.documentsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordTransition counts a transition and observes its latency.
func (r *PrometheusRecorder) RecordTransition(_ context.Context, action, outcome string, duration time.Duration) {
	r.transitionsTotal.WithLabelValues(action, outcome).Inc()
	r.transitionDuration.WithLabelValues(action, outcome).Observe(duration.Seconds())
}

// RecordDocument counts a document render attempt.
func (r *PrometheusRecorder) RecordDocument(_ context.Context, documentType, outcome string) {
	r.documentsTotal.WithLabelValues(documentType, outcome).Inc()
}

// Register adds extra collectors to the recorder's registry.
func (r *PrometheusRecorder) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := r.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gather returns the current metric families.
func (r *PrometheusRecorder) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}
