package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementAppended("case.created", "basis_pending")
	m.IncrementAppended("case.created", "basis_pending")
	m.IncrementRejected("deadline.response", "validation_failed")
	m.IncrementRetry()
	m.ObserveSubmitLatency(10 * time.Millisecond)
	m.ObserveReplay(true, 3)
	m.SetBacklog(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsAppended.WithLabelValues("case.created", "basis_pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmissionsRejected.WithLabelValues("deadline.response", "validation_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConcurrencyRetries))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.OutboxBacklog))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementAppended("x", "y")
		m.IncrementRejected("x", "y")
		m.IncrementRetry()
		m.ObserveSubmitLatency(time.Second)
		m.ObserveReplay(false, 1)
		m.IncrementPassiveAcceptance()
		m.IncrementRelayed("published")
		m.SetBacklog(1)
	})
}
