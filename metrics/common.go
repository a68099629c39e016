package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the basic namespace where all metrics are defined under.
	Namespace = "txrecon"
)

// NewCounter creates and registers a Counter metrics under the global namespace.
func NewCounter(name, subsystem, help string, labels []string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewGauge creates and registers a Gauge metrics under the global namespace.
func NewGauge(name, subsystem, help string, labels []string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewHistogram creates and registers a Histogram metrics under the global namespace.
func NewHistogram(name, subsystem, help string, labels []string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewHistogramWithBuckets creates a Histogram metrics with custom buckets.
func NewHistogramWithBuckets(name, subsystem, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets}, labels)
}

// reconciliationRoundLatency records reconciliation round latencies, labeled
// by outcome. The only outcome recorded is "timeout" (by relay.Loop.tick):
// how long a pending request has been outstanding once it has outlived the
// response timeout. No "ok" observation is made for answered requests. It lets an operator see whether RECON_RESPONSE_TIMEOUT
// is sized correctly for the network the node actually runs on.
var reconciliationRoundLatency = NewHistogramWithBuckets(
	"round_latency_seconds",
	"reconcile",
	"Observed latency of a reconciliation round trip",
	[]string{"outcome"},
	prometheus.ExponentialBuckets(0.1, 2, 12),
)

// ReportRoundLatency records how long a reconciliation round with a peer took.
func ReportRoundLatency(outcome string, latency time.Duration) {
	reconciliationRoundLatency.WithLabelValues(outcome).Observe(latency.Seconds())
}

var (
	// RegisteredPeers tracks the current number of peers registered with the
	// tracker, by direction.
	RegisteredPeers = NewGauge("registered_peers", "reconcile", "Number of peers currently registered", []string{"direction"})

	// FanoutPeers tracks how many peers are currently chosen flooding
	// destinations, by direction.
	FanoutPeers = NewGauge("fanout_peers", "reconcile", "Number of peers chosen for flooding", []string{"direction"})

	// RegistrationResults counts EnableReconciliationSupport outcomes by result.
	RegistrationResults = NewCounter("registration_results_total", "reconcile", "Outcomes of peer registration attempts", []string{"result"})

	// AnnouncedTransactions counts transactions stored for announcement to a peer.
	AnnouncedTransactions = NewCounter("announced_transactions_total", "reconcile", "Transactions stored for reconciliation with a peer", []string{})

	// FloodedTransactions counts transactions sent immediately via flooding
	// instead of being queued for reconciliation.
	FloodedTransactions = NewCounter("flooded_transactions_total", "reconcile", "Transactions sent immediately via flooding", []string{})
)
