package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics records commit outcomes and cart activity for the terminal.
type SalesMetrics struct {
	commitDuration *prometheus.HistogramVec
	commitSuccess  prometheus.Counter
	commitFailure  *prometheus.CounterVec
	cartOps        *prometheus.CounterVec
}

// NewSalesMetrics registers the sales metrics on the provided registerer.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	commitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_commit_duration_seconds",
		Help:    "Duration of sale commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	commitSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sale_commit_success",
		Help: "Successfully committed sales.",
	})
	commitFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_commit_failure",
		Help: "Failed sale commits.",
	}, []string{"reason"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(commitDuration, commitSuccess, commitFailure, cartOps)
	return &SalesMetrics{
		commitDuration: commitDuration,
		commitSuccess:  commitSuccess,
		commitFailure:  commitFailure,
		cartOps:        cartOps,
	}
}

// ObserveCommit records the duration of a commit attempt by outcome.
func (m *SalesMetrics) ObserveCommit(outcome string, duration time.Duration) {
	if m == nil || m.commitDuration == nil {
		return
	}
	m.commitDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCommitSuccess increments the committed-sale counter.
func (m *SalesMetrics) IncCommitSuccess() {
	if m == nil || m.commitSuccess == nil {
		return
	}
	m.commitSuccess.Inc()
}

// IncCommitFailure increments the failure counter for the given reason.
func (m *SalesMetrics) IncCommitFailure(reason string) {
	if m == nil || m.commitFailure == nil {
		return
	}
	m.commitFailure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCartOp increments the cart-operation counter for the named op.
func (m *SalesMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
