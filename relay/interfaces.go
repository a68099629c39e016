// Package relay wires a reconcile.Tracker to the external collaborators
// named in SPEC_FULL.md §6: a wall clock, a random source, a short-ID
// hasher, and a sketch transport. None of that plumbing lives inside
// package reconcile, which stays a pure, side-effect-free data structure;
// relay.Loop is the ambient facade a full node build drives instead.
package relay

import (
	"context"

	"github.com/naumenkogs/bitcoin/reconcile"
)

// SketchEncoder consumes the tracker's output. It builds and decodes the
// actual minisketch-style sketches and owns the wire transport; both are out
// of scope for this module (SPEC_FULL.md §1).
type SketchEncoder interface {
	// SendRequest dispatches an outgoing reconciliation request built from
	// req to peerID.
	SendRequest(ctx context.Context, peerID reconcile.PeerID, req reconcile.ReconciliationRequest) error
	// Announce transmits txs to peerID outside of reconciliation (fanout).
	Announce(ctx context.Context, peerID reconcile.PeerID, txs []reconcile.Wtxid) error
}

// PeerDirectory supplies the set of currently known initiator-role peers so
// the scheduling loop can poll IsPeerNextToReconcileWith for each of them,
// and the set of registered peers of both directions so AnnounceTransactions
// can fan a new transaction out to every peer.
type PeerDirectory interface {
	InitiatorPeers() []reconcile.PeerID
	RegisteredPeers() []reconcile.PeerID
}
