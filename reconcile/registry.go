package reconcile

// PreRegisterPeer enters peerID into the PreRegistered phase with a zero
// salt, without producing offer values. This is the lightweight handshake
// path used in tests and by peers that skip the suggest/enable split (see
// SuggestReconciling for the other presentation of the same state machine).
// Calling it again for an already pre-registered or registered peer
// overwrites the stored state, starting the handshake over.
func (t *Tracker) PreRegisterPeer(peerID PeerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.removeFromQueueLocked(peerID)
	t.peers[peerID] = &PeerState{Phase: PreRegistered}
}

// SuggestReconciling produces the values to be sent to peerID in the initial
// reconciliation offer and pre-registers the peer with a fresh random salt.
// Policy: weInitiate = !isInbound, weRespond = isInbound. Calling it twice
// for the same peer overwrites the previously stored salt.
func (t *Tracker) SuggestReconciling(peerID PeerID, isInbound bool) (weInitiate, weRespond bool, version uint32, localSalt uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	localSalt = t.rand.Uint64()
	t.removeFromQueueLocked(peerID)
	t.peers[peerID] = &PeerState{
		Phase:     PreRegistered,
		Salt:      localSalt,
		IsInbound: isInbound,
	}
	return !isInbound, isInbound, t.protocolVersion, localSalt
}

// EnableReconciliationSupport completes the handshake for a pre-registered
// peer. It requires phase PreRegistered and validates role consistency and a
// non-zero negotiated version; on success the peer is promoted to
// Registered, an empty announcement set is allocated, chosen-for-fanout is
// decided, and — if the peer is an initiator — it is appended to the
// reconciliation queue.
func (t *Tracker) EnableReconciliationSupport(
	peerID PeerID,
	isInbound bool,
	reconRequestor, reconResponder bool,
	version uint32,
	remoteSalt uint64,
) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	if !ok {
		return ResultNotFound
	}
	if p.Phase == Registered {
		return ResultAlreadyRegistered
	}
	if p.Phase != PreRegistered {
		return ResultNotFound
	}

	weInitiate := !isInbound
	if isInbound {
		// The peer connected to us; it must be the one requesting sketches.
		if !reconRequestor {
			return ResultProtocolViolation
		}
	} else {
		// We connected to the peer; it must be the one responding to our requests.
		if !reconResponder {
			return ResultProtocolViolation
		}
	}
	if version == 0 {
		return ResultProtocolViolation
	}

	negotiated := version
	if t.protocolVersion < negotiated {
		negotiated = t.protocolVersion
	}

	p.Phase = Registered
	p.IsInbound = isInbound
	p.WeInitiate = weInitiate
	p.TheyRespond = weInitiate && reconResponder
	p.Version = negotiated
	p.AnnouncementSet = make(map[Wtxid]struct{})

	initiatorSalt, responderSalt := p.Salt, remoteSalt
	if isInbound {
		initiatorSalt, responderSalt = remoteSalt, p.Salt
	}
	p.ChosenForFanout = t.decideChosenForFanoutLocked(peerID, CombineSalts(initiatorSalt, responderSalt))

	if p.WeInitiate {
		t.queue = append(t.queue, peerID)
	}

	return ResultSuccess
}

// ForgetPeer removes peerID and all of its per-peer state, including queue
// membership. It is idempotent: forgetting an unknown peer is a silent
// no-op.
func (t *Tracker) ForgetPeer(peerID PeerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.peers, peerID)
	t.removeFromQueueLocked(peerID)
}

// IsPeerRegistered reports whether peerID is currently in the Registered
// phase.
func (t *Tracker) IsPeerRegistered(peerID PeerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.peers[peerID]
	return ok && p.Phase == Registered
}

// PeerDirection reports whether a registered peer is inbound. The second
// return value is false for unknown or not-yet-registered peers. It exists
// for callers (relay.Loop) that need to break registered peers down by
// direction without reaching into PeerState directly.
func (t *Tracker) PeerDirection(peerID PeerID) (isInbound bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, exists := t.peers[peerID]
	if !exists || p.Phase != Registered {
		return false, false
	}
	return p.IsInbound, true
}

// IsPeerResponder reports whether a registered peer is expected to respond
// to our reconciliation requests (the TheyRespond bit negotiated during
// EnableReconciliationSupport). The second return value is false for
// unknown or not-yet-registered peers.
func (t *Tracker) IsPeerResponder(peerID PeerID) (theyRespond bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, exists := t.peers[peerID]
	if !exists || p.Phase != Registered {
		return false, false
	}
	return p.TheyRespond, true
}

// removeFromQueueLocked drops peerID from the queue, if present. The gap
// used by the next scheduling decision is derived lazily from the resulting
// queue length (see gapLocked), so no further bookkeeping is needed here.
func (t *Tracker) removeFromQueueLocked(peerID PeerID) {
	for i, id := range t.queue {
		if id == peerID {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return
		}
	}
}
