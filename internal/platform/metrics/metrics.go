package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP level Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "koe_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "koe_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
