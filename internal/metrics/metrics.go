package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts fetch and mutation outcomes per operation and records
// request durations. It owns its registry so tests and multiple
// components never collide on metric registration. A nil *Collector is a
// valid no-op.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	return &Collector{
		registry: registry,
		requests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "mirabank_requests_total",
			Help: "Total API requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mirabank_request_duration_seconds",
			Help:    "API request duration by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// Observe records one completed request.
func (c *Collector) Observe(operation string, start time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.requests.WithLabelValues(operation, outcome).Inc()
	c.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Handler serves the collector's registry, for mounting at /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
