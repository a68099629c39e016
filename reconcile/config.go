// Package reconcile implements the transaction-reconciliation tracker: the
// per-peer bookkeeping, fanout selection, and scheduling that sit behind a
// BIP-330-style ("Erlay") gossip relay loop. The package never performs I/O,
// never reads the clock, and never logs — it is a pure, mutex-guarded data
// structure meant to be driven by a surrounding relay loop (see package relay).
package reconcile

import "time"

// Protocol-level defaults. A full node build may override these through
// internal/config.Config and pass the results to New as Options; NewTracker
// always uses these defaults.
const (
	// TxReconciliationVersion is the local maximum supported protocol version.
	TxReconciliationVersion uint32 = 1

	// QPrecision is the fixed-point scale for the q coefficient sent in a
	// reconciliation request.
	QPrecision = 32767

	// DefaultQ is the initial estimate of relative set-difference density,
	// used until the caller has a better estimate from prior rounds.
	DefaultQ = 0.25

	// ReconRequestInterval is the target revisit interval for each peer in
	// the reconciliation queue, split evenly across the queue.
	ReconRequestInterval = 8 * time.Second

	// ReconResponseTimeout bounds how long a pending request gates the
	// queue head before it is treated as abandoned.
	ReconResponseTimeout = 2 * time.Second

	// InboundFanoutDestinationsFraction is the target fraction of registered
	// inbound peers that should also receive fanout for any given
	// transaction, rounded up.
	InboundFanoutDestinationsFraction = 0.1

	// OutboundFanoutDestinations is the target number of registered
	// outbound peers that should also receive fanout for any given
	// transaction.
	OutboundFanoutDestinations = 1
)
