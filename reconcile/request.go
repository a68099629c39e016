package reconcile

import "time"

// InitiateReconciliationRequest produces the parameters of an outgoing
// reconciliation request for peerID and marks it as having a pending
// request. It returns (zero, false) if peerID is not a registered
// initiator, or already has a pending request. The tracker does not build
// the sketch itself; the returned parameters are handed to the sketch
// encoder collaborator (see relay.SketchEncoder).
func (t *Tracker) InitiateReconciliationRequest(peerID PeerID, now time.Time) (ReconciliationRequest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered || !p.WeInitiate || p.PendingRequest {
		return ReconciliationRequest{}, false
	}

	req := ReconciliationRequest{
		LocalSetSize: len(p.AnnouncementSet),
		QFormatted:   formatQ(t.params.DefaultQ),
	}
	p.PendingRequest = true
	p.LastRequestTime = now
	return req, true
}

// formatQ scales a relative set-difference density estimate into the
// 15-bit fixed-point encoding sent on the wire. DefaultQ (0.25) must format
// to exactly 8191, so this truncates rather than rounds to nearest.
func formatQ(q float64) uint16 {
	return uint16(q * QPrecision)
}
