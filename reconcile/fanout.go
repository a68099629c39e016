package reconcile

import "math"

// fanoutChosenFraction is the share of the peer-id hash space whose peers
// are marked as permanent fanout destinations: roughly one in ten registered
// peers (SPEC_FULL.md §4.3a). The number of chosen peers grows with the
// number of registered peers; it is not capped at a fixed count.
const fanoutChosenFraction = 0.1

// decideChosenForFanoutLocked derives the permanent chosen-for-flooding bit
// for a newly registered peer from its id and the tracker's per-process
// fanout secret, so an adversary who doesn't know the secret cannot target
// which peers get chosen. Callers must hold mu.
func (t *Tracker) decideChosenForFanoutLocked(peerID PeerID, hasher ShortIDHasher) bool {
	_ = hasher // the permanent bit is keyed on the process secret, not the per-peer salt
	rank := rankPeer(Wtxid{}, ShortIDHasher{K0: t.fanoutSecret, K1: t.fanoutSecret}, peerID)
	// Select roughly fanoutChosenFraction of the id space, independent of
	// how many peers happen to be registered right now.
	threshold := uint64(fanoutChosenFraction * float64(math.MaxUint64))
	return rank < threshold
}

// IsPeerChosenForFlooding returns the stored ChosenForFanout bit for a
// registered peer. The second return value is false for unknown or
// not-yet-registered peers.
func (t *Tracker) IsPeerChosenForFlooding(peerID PeerID) (bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered {
		return false, false
	}
	return p.ChosenForFanout, true
}

// ShouldFanoutTo decides whether the given (wtxid, peer) pair should be
// flooded rather than left to reconciliation. It is deterministic and
// stateless given its inputs: the same wtxid, hasher, peer set and counts
// always produce the same answer, and the hasher is never reseeded inside
// the call.
//
// If peerID is not registered for reconciliation, ShouldFanoutTo falls back
// to full flooding (true). Otherwise it ranks all currently-registered
// peers of the same direction (inbound vs outbound) under a
// transaction-specific keyed hash and selects the top K, where K is the
// per-direction fanout target minus peers already flooding by other means
// (counts). A non-positive K means no reconciling peer of that direction is
// selected.
func (t *Tracker) ShouldFanoutTo(wtxid Wtxid, hasher ShortIDHasher, peerID PeerID, counts NonReconcilingCounts) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.shouldFanoutToLocked(wtxid, hasher, peerID, counts)
}

// shouldFanoutToLocked is ShouldFanoutTo's body, factored out so
// StoreTxsToAnnounce can reuse it per-transaction without re-acquiring mu.
// Callers must hold mu.
func (t *Tracker) shouldFanoutToLocked(wtxid Wtxid, hasher ShortIDHasher, peerID PeerID, counts NonReconcilingCounts) bool {
	target, ok := t.peers[peerID]
	if !ok || target.Phase != Registered {
		return true
	}

	k, siblings := t.fanoutTargetLocked(target.IsInbound, counts)
	if k <= 0 {
		return false
	}

	rank := rankPeer(wtxid, hasher, peerID)
	betterCount := 0
	for _, sibling := range siblings {
		if sibling == peerID {
			continue
		}
		if rankPeer(wtxid, hasher, sibling) < rank {
			betterCount++
		}
	}
	return betterCount < k
}

// fanoutTargetLocked returns the fanout count K for the given direction and
// the full list of registered peer ids sharing that direction, including
// the peer being evaluated. Callers must hold mu.
func (t *Tracker) fanoutTargetLocked(isInbound bool, counts NonReconcilingCounts) (int, []PeerID) {
	var siblings []PeerID
	for id, p := range t.peers {
		if p.Phase == Registered && p.IsInbound == isInbound {
			siblings = append(siblings, id)
		}
	}

	if isInbound {
		k := int(math.Ceil(float64(len(siblings))*t.params.InboundFanoutDestinationsFraction)) - counts.InboundNonReconciling
		return k, siblings
	}
	k := t.params.OutboundFanoutDestinations - counts.OutboundNonReconciling
	return k, siblings
}
