package reconcile

// StoreTxsToAnnounce inserts each of txs into peerID's announcement set,
// except for transactions the fanout selector has chosen to flood to this
// peer instead — those are returned to the caller (the relay loop) so it
// can transmit them immediately. The tracker itself never transmits.
// Duplicate insertions are no-ops. Calling this for an unregistered peer is
// a silent no-op that returns nil.
func (t *Tracker) StoreTxsToAnnounce(peerID PeerID, txs []Wtxid, hasher ShortIDHasher, counts NonReconcilingCounts) []Wtxid {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered {
		return nil
	}

	var fanout []Wtxid
	for _, tx := range txs {
		if t.shouldFanoutToLocked(tx, hasher, peerID, counts) {
			fanout = append(fanout, tx)
			continue
		}
		p.AnnouncementSet[tx] = struct{}{}
	}
	return fanout
}

// RemoveFromSet drops wtxid from peerID's announcement set, for use when a
// peer announces (or otherwise learns of) a transaction through some other
// channel before it would have been reconciled. It reports whether wtxid was
// present. Removing from an unregistered peer's set is a silent no-op that
// returns false.
func (t *Tracker) RemoveFromSet(peerID PeerID, wtxid Wtxid) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered {
		return false
	}
	if _, present := p.AnnouncementSet[wtxid]; !present {
		return false
	}
	delete(p.AnnouncementSet, wtxid)
	return true
}

// GetPeerSetSize returns the number of transaction ids currently queued for
// announcement to peerID. The second return value is false for unknown or
// not-yet-registered peers.
func (t *Tracker) GetPeerSetSize(peerID PeerID) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok || p.Phase != Registered {
		return 0, false
	}
	return len(p.AnnouncementSet), true
}
