package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the case ledger.
type Metrics struct {
	// Accepted submissions by event type and resulting status
	EventsAppended *prometheus.CounterVec

	// Rejected submissions by event type and error code
	SubmissionsRejected *prometheus.CounterVec

	// Optimistic concurrency retries
	ConcurrencyRetries prometheus.Counter

	// Submit latency including projection and append
	SubmitLatency prometheus.Histogram

	// Events folded per projection, split by cache hit
	ReplayedEvents *prometheus.HistogramVec

	// Passive acceptances recorded by the sweeper
	PassiveAcceptances prometheus.Counter

	// Outbox rows relayed, by result
	OutboxRelayed *prometheus.CounterVec

	// Unpublished outbox rows seen at the last relay pass
	OutboxBacklog prometheus.Gauge
}

// New registers the ledger metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		EventsAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "koe_ledger_events_appended_total",
			Help: "Events appended to case logs by type and resulting case status",
		}, []string{"type", "status"}),

		SubmissionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "koe_ledger_submissions_rejected_total",
			Help: "Submissions rejected by type and error code",
		}, []string{"type", "code"}),

		ConcurrencyRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "koe_ledger_concurrency_retries_total",
			Help: "Submissions retried after a version conflict",
		}),

		SubmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "koe_ledger_submit_duration_seconds",
			Help:    "Duration of a submission including projection and append",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		ReplayedEvents: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "koe_ledger_replayed_events",
			Help:    "Events folded per projection",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"cache"}), // cache: "hit", "miss"

		PassiveAcceptances: factory.NewCounter(prometheus.CounterOpts{
			Name: "koe_ledger_passive_acceptances_total",
			Help: "Basis notices recorded as passively accepted",
		}),

		OutboxRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "koe_ledger_outbox_relayed_total",
			Help: "Outbox entries relayed by result",
		}, []string{"result"}), // result: "published", "failed"

		OutboxBacklog: factory.NewGauge(prometheus.GaugeOpts{
			Name: "koe_ledger_outbox_backlog",
			Help: "Unpublished outbox entries at the last relay pass",
		}),
	}
}

// IncrementAppended records an accepted event.
func (m *Metrics) IncrementAppended(eventType, status string) {
	if m != nil {
		m.EventsAppended.WithLabelValues(eventType, status).Inc()
	}
}

// IncrementRejected records a rejected submission.
func (m *Metrics) IncrementRejected(eventType, code string) {
	if m != nil {
		m.SubmissionsRejected.WithLabelValues(eventType, code).Inc()
	}
}

// IncrementRetry records a concurrency retry.
func (m *Metrics) IncrementRetry() {
	if m != nil {
		m.ConcurrencyRetries.Inc()
	}
}

// ObserveSubmitLatency records the duration of a submission.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}

// ObserveReplay records how many events a projection folded.
func (m *Metrics) ObserveReplay(cacheHit bool, events int64) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.ReplayedEvents.WithLabelValues(label).Observe(float64(events))
}

// IncrementPassiveAcceptance records a sweeper acceptance.
func (m *Metrics) IncrementPassiveAcceptance() {
	if m != nil {
		m.PassiveAcceptances.Inc()
	}
}

// IncrementRelayed records a relay result.
func (m *Metrics) IncrementRelayed(result string) {
	if m != nil {
		m.OutboxRelayed.WithLabelValues(result).Inc()
	}
}

// SetBacklog records the outbox backlog.
func (m *Metrics) SetBacklog(n int) {
	if m != nil {
		m.OutboxBacklog.Set(float64(n))
	}
}
