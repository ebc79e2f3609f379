// Package metrics holds the Prometheus collectors for the API: HTTP traffic,
// itinerary mutations, and schedule advisories.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like
// without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Mutations    *prometheus.CounterVec
	Advisories   *prometheus.CounterVec
}

// NewCollector creates and registers all metrics under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itinerary_mutations_total",
			Help:      "Itinerary mutations by operation and outcome",
		}, []string{"op", "outcome"}),
		Advisories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_advisories_total",
			Help:      "Schedule advisories surfaced on edit commits",
		}, []string{"kind"}),
	}
	c.registry.MustRegister(
		c.HTTPRequests, c.HTTPDuration, c.Mutations, c.Advisories,
		collectors.NewGoCollector(),
	)
	return c
}

// Mutation counts one itinerary mutation. outcome is "ok" when err is nil.
func (c *Collector) Mutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Mutations.WithLabelValues(op, outcome).Inc()
}

// Advisory counts one surfaced schedule advisory.
func (c *Collector) Advisory(kind string) {
	c.Advisories.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP records one served request. route is the chi route pattern,
// never the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
