package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitiateReconciliationRequestParameters(t *testing.T) {
	tr := NewTracker(newSeededRand(30))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 0, 1))

	req, ok := tr.InitiateReconciliationRequest(0, at(0))
	require.True(t, ok)
	require.Equal(t, ReconciliationRequest{LocalSetSize: 0, QFormatted: 8191}, req)

	// A second call while the first is still pending fails.
	_, ok = tr.InitiateReconciliationRequest(0, at(1))
	require.False(t, ok)

	// Clearing the pending flag happens only through queue rotation, which
	// this test does not exercise; the request leaves the announcement set
	// untouched.
	size, ok := tr.GetPeerSetSize(0)
	require.True(t, ok)
	require.Zero(t, size)
}

func TestInitiateReconciliationRequestReflectsAnnouncementSetSize(t *testing.T) {
	tr := NewTracker(newSeededRand(31))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 0, 1))

	hasher := CombineSalts(1, 2)
	txs := []Wtxid{wtxidFromInt(1), wtxidFromInt(2), wtxidFromInt(3)}
	fanout := tr.StoreTxsToAnnounce(0, txs, hasher, NonReconcilingCounts{OutboundNonReconciling: 1})
	require.Empty(t, fanout) // K=1-1=0 => nothing fanned out, everything stored

	req, ok := tr.InitiateReconciliationRequest(0, at(0))
	require.True(t, ok)
	require.Equal(t, 3, req.LocalSetSize)
	require.Equal(t, uint16(8191), req.QFormatted)
}

func TestInitiateReconciliationRequestRejectsNonInitiator(t *testing.T) {
	tr := NewTracker(newSeededRand(32))
	require.Equal(t, ResultSuccess, registerInbound(tr, 0, 1))

	_, ok := tr.InitiateReconciliationRequest(0, at(0))
	require.False(t, ok)
}

func TestRemoveFromSet(t *testing.T) {
	tr := NewTracker(newSeededRand(34))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 0, 1))
	hasher := CombineSalts(1, 2)

	tx := wtxidFromInt(9)
	tr.StoreTxsToAnnounce(0, []Wtxid{tx}, hasher, NonReconcilingCounts{OutboundNonReconciling: 1})
	size, ok := tr.GetPeerSetSize(0)
	require.True(t, ok)
	require.Equal(t, 1, size)

	require.True(t, tr.RemoveFromSet(0, tx))
	size, ok = tr.GetPeerSetSize(0)
	require.True(t, ok)
	require.Zero(t, size)

	// Already removed: no-op.
	require.False(t, tr.RemoveFromSet(0, tx))

	// Unregistered peer: silent no-op.
	require.False(t, tr.RemoveFromSet(99, tx))
}

func TestPendingRequestElapsed(t *testing.T) {
	tr := NewTracker(newSeededRand(35))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 0, 1))

	_, pending := tr.PendingRequestElapsed(0, at(0))
	require.False(t, pending)

	_, ok := tr.InitiateReconciliationRequest(0, at(10))
	require.True(t, ok)

	elapsed, pending := tr.PendingRequestElapsed(0, at(15))
	require.True(t, pending)
	require.Equal(t, 5*time.Second, elapsed)

	_, pending = tr.PendingRequestElapsed(99, at(15))
	require.False(t, pending)
}

func TestStoreTxsToAnnounceIgnoresDuplicatesAndUnregisteredPeers(t *testing.T) {
	tr := NewTracker(newSeededRand(33))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 0, 1))
	hasher := CombineSalts(1, 2)

	fanout := tr.StoreTxsToAnnounce(99, []Wtxid{wtxidFromInt(1)}, hasher, NonReconcilingCounts{OutboundNonReconciling: 1})
	require.Nil(t, fanout)

	tx := wtxidFromInt(7)
	tr.StoreTxsToAnnounce(0, []Wtxid{tx, tx}, hasher, NonReconcilingCounts{OutboundNonReconciling: 1})
	size, ok := tr.GetPeerSetSize(0)
	require.True(t, ok)
	require.Equal(t, 1, size)
}
