package reconcile

import "time"

// PeerID identifies a peer to the tracker. It is opaque to this package; the
// relay loop is responsible for mapping it to a transport-level connection.
type PeerID int64

// Wtxid is the 256-bit witness transaction identifier used as the element
// type of a peer's announcement set.
type Wtxid [32]byte

// Phase is the lifecycle stage of a peer known to the tracker. The zero value
// never appears in stored state: a peer absent from the tracker is simply not
// present in the peers map (the "Forgotten" phase of the design is absence,
// not a stored value).
type Phase uint8

const (
	// PreRegistered marks a peer that has exchanged (or been given) a salt
	// but has not yet completed the handshake.
	PreRegistered Phase = iota + 1
	// Registered marks a peer with a live announcement set and, if it
	// initiates, a queue slot.
	Registered
)

// String implements fmt.Stringer for log-friendly phase names.
func (p Phase) String() string {
	switch p {
	case PreRegistered:
		return "pre_registered"
	case Registered:
		return "registered"
	default:
		return "unknown"
	}
}

// Result is the outcome of a registration operation.
type Result uint8

const (
	// ResultSuccess indicates the operation completed as requested.
	ResultSuccess Result = iota
	// ResultAlreadyRegistered indicates the peer was already Registered.
	ResultAlreadyRegistered
	// ResultNotFound indicates no pre-registration exists for the peer.
	ResultNotFound
	// ResultProtocolViolation indicates a version or role mismatch; the
	// caller is expected to disconnect the peer.
	ResultProtocolViolation
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultAlreadyRegistered:
		return "already_registered"
	case ResultNotFound:
		return "not_found"
	case ResultProtocolViolation:
		return "protocol_violation"
	default:
		return "unknown"
	}
}

// NonReconcilingCounts carries the number of peers of each direction that
// already receive full flooding outside of reconciliation (e.g. peers that
// don't support BIP-330 at all). ShouldFanoutTo subtracts these from the
// fanout target before ranking reconciling peers.
type NonReconcilingCounts struct {
	InboundNonReconciling  int
	OutboundNonReconciling int
}

// ReconciliationRequest is the set of parameters the request builder hands to
// the sketch encoder collaborator for an outgoing reconciliation request.
type ReconciliationRequest struct {
	LocalSetSize int
	QFormatted   uint16
}

// PeerState is the per-peer record tracked between pre-registration and
// forgetting. The tracker keeps it behind a pointer in its peers map; no
// Tracker method returns it, and it is mutated only by Tracker methods.
type PeerState struct {
	Phase           Phase
	Salt            uint64
	IsInbound       bool
	WeInitiate      bool
	TheyRespond     bool
	Version         uint32
	AnnouncementSet map[Wtxid]struct{}
	ChosenForFanout bool
	LastRequestTime time.Time
	PendingRequest  bool
}
