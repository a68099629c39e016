package reconcile

import (
	"sync"
	"time"
)

// Params holds the runtime-configurable values a full node build derives
// from internal/config.Config (SPEC_FULL.md §4.7), replacing what would
// otherwise be the package's hardcoded defaults. Zero-value Params is never
// used directly; DefaultParams seeds New/NewTracker.
type Params struct {
	ReconRequestInterval              time.Duration
	ReconResponseTimeout              time.Duration
	DefaultQ                          float64
	InboundFanoutDestinationsFraction float64
	OutboundFanoutDestinations        int
}

// DefaultParams returns the package's built-in defaults, the values used
// when a caller doesn't override them via Option.
func DefaultParams() Params {
	return Params{
		ReconRequestInterval:              ReconRequestInterval,
		ReconResponseTimeout:              ReconResponseTimeout,
		DefaultQ:                          DefaultQ,
		InboundFanoutDestinationsFraction: InboundFanoutDestinationsFraction,
		OutboundFanoutDestinations:        OutboundFanoutDestinations,
	}
}

// Option configures a Tracker at construction time, the same functional
// option pattern relay.Loop uses.
type Option func(t *Tracker)

// WithReconRequestInterval overrides the target per-peer revisit interval.
func WithReconRequestInterval(d time.Duration) Option {
	return func(t *Tracker) { t.params.ReconRequestInterval = d }
}

// WithReconResponseTimeout overrides how long a pending request gates the
// queue head before it's treated as abandoned.
func WithReconResponseTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.params.ReconResponseTimeout = d }
}

// WithDefaultQ overrides the initial relative set-difference density estimate.
func WithDefaultQ(q float64) Option {
	return func(t *Tracker) { t.params.DefaultQ = q }
}

// WithInboundFanoutDestinationsFraction overrides the target fraction of
// inbound peers that also receive fanout for any given transaction.
func WithInboundFanoutDestinationsFraction(frac float64) Option {
	return func(t *Tracker) { t.params.InboundFanoutDestinationsFraction = frac }
}

// WithOutboundFanoutDestinations overrides the target number of outbound
// peers that also receive fanout for any given transaction.
func WithOutboundFanoutDestinations(n int) Option {
	return func(t *Tracker) { t.params.OutboundFanoutDestinations = n }
}

// Tracker is the thread-safe facade exposed to the relay loop. A single
// mutex guards all fields; every exported method takes and releases it
// around a short, allocation-light critical section (teacher idiom:
// fetch/peers.Peers, sync2/multipeer's single-writer bookkeeping).
//
// Tracker never performs I/O, never reads the clock, and never logs; see
// package doc for the rationale.
type Tracker struct {
	mu sync.Mutex

	rand            RandSource
	protocolVersion uint32
	fanoutSecret    uint64
	params          Params

	peers map[PeerID]*PeerState

	// queue holds the ids of registered, initiator-role peers in
	// round-robin order. queue[0] is the head.
	queue         []PeerID
	nextReconTime time.Time
}

// New creates an empty Tracker. rand must be non-nil and, in production,
// cryptographically secure; protocolVersion is the local maximum supported
// protocol version (TxReconciliationVersion by default). opts override
// DefaultParams, normally sourced from internal/config.Config.
func New(rand RandSource, protocolVersion uint32, opts ...Option) *Tracker {
	t := &Tracker{
		rand:            rand,
		protocolVersion: protocolVersion,
		fanoutSecret:    rand.Uint64(),
		params:          DefaultParams(),
		peers:           make(map[PeerID]*PeerState),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Params returns a copy of the tracker's current runtime parameters, for
// callers (relay.Loop) that need to derive timing decisions — such as how
// long a pending request may stay outstanding — without duplicating the
// value themselves.
func (t *Tracker) Params() Params {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.params
}

// NewTracker is an alias of New using the package's default protocol
// version and parameters, mirroring the two-presentations-of-one-thing
// idiom used throughout this package (see SuggestReconciling/PreRegisterPeer).
func NewTracker(rand RandSource) *Tracker {
	return New(rand, TxReconciliationVersion)
}
