package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the HTTP server collectors.
type Metrics struct {
	Registry *prometheus.Registry

	InflightRequests prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	CartAdditions    *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		InflightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Number of HTTP requests being served.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CartAdditions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "cart",
			Name:      "additions_total",
			Help:      "Add-to-cart activations by outcome.",
		}, []string{"outcome"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.InflightRequests,
		m.RequestsTotal,
		m.RequestDuration,
		m.CartAdditions,
	)

	return m
}
