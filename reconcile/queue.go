package reconcile

import "time"

// gapLocked returns the current per-peer revisit interval, splitting the
// tracker's configured ReconRequestInterval evenly across the queue.
// Callers must hold mu.
func (t *Tracker) gapLocked() time.Duration {
	n := len(t.queue)
	if n <= 1 {
		return t.params.ReconRequestInterval
	}
	return t.params.ReconRequestInterval / time.Duration(n)
}

// PendingRequestElapsed reports how long a pending reconciliation request to
// peerID has been outstanding as of now. The second return value is false
// if no request is currently pending (including for unknown or
// not-yet-registered peers), in which case the duration is meaningless.
func (t *Tracker) PendingRequestElapsed(peerID PeerID, now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered || !p.PendingRequest {
		return 0, false
	}
	return now.Sub(p.LastRequestTime), true
}

// IsPeerNextToReconcileWith is the only scheduling operation. It returns
// true at most once per eligible visit, and rotates the queue as a side
// effect of returning true: callers racing on the same peer see the
// rotation atomically, so the first caller for whom it returns true wins
// the right to reconcile with that peer.
func (t *Tracker) IsPeerNextToReconcileWith(peerID PeerID, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered || !p.WeInitiate {
		return false
	}
	if len(t.queue) == 0 || t.queue[0] != peerID {
		return false
	}
	if now.Before(t.nextReconTime) {
		return false
	}
	if p.PendingRequest && now.Before(t.nextReconTime.Add(t.params.ReconResponseTimeout)) {
		return false
	}

	gap := t.gapLocked()
	t.queue = append(t.queue[1:], t.queue[0])
	p.PendingRequest = false
	t.nextReconTime = now.Add(gap)
	return true
}
