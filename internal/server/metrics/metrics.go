// Package metrics exposes Prometheus metrics for the planets API server.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
)

const metricsNamespace = "planets"

// Collector is a prometheus.Collector that collects metrics about the
// planets API server.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	writes          *prometheus.CounterVec
	clients         []prometheus.GaugeFunc
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "The number of HTTP requests served.",
			}, []string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "The time taken to serve an HTTP request.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			}, []string{"method", "route"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "planet_writes_total",
				Help:      "The number of successful planet writes.",
			}, []string{"operation"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.requestDuration.Describe(ch)
	c.writes.Describe(ch)
	for _, g := range c.clients {
		g.Describe(ch)
	}
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.requestDuration.Collect(ch)
	c.writes.Collect(ch)
	for _, g := range c.clients {
		g.Collect(ch)
	}
}

// ObserveRequest records one served request.
func (c *Collector) ObserveRequest(method, route string, status int, seconds float64) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

// TrackClients reports count as the number of connected clients for a
// realtime transport. It must be called before the collector is registered.
func (c *Collector) TrackClients(transport string, count func() int) {
	c.clients = append(c.clients, prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "realtime_clients",
			Help:        "The number of connected realtime clients.",
			ConstLabels: prometheus.Labels{"transport": transport},
		},
		func() float64 { return float64(count()) },
	))
}

// Hooks returns query hooks that count successful writes.
func (c *Collector) Hooks() query.Hooks {
	return query.Hooks{
		OnCreated: func(planets.Planet) { c.writes.WithLabelValues("create").Inc() },
		OnUpdated: func(_, _ planets.Planet) { c.writes.WithLabelValues("update").Inc() },
		OnDeleted: func(planets.Planet) { c.writes.WithLabelValues("delete").Inc() },
	}
}

// Handler returns an HTTP handler serving the metrics registered on reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// NewRegistry returns a registry holding c plus the standard Go and
// process collectors.
func NewRegistry(c *Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		c,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return reg
}
