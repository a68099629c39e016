package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}

func TestQueueRotationWithTwoPeers(t *testing.T) {
	tr := NewTracker(newSeededRand(20))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 1, 1))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 2, 1))

	require.True(t, tr.IsPeerNextToReconcileWith(1, at(100)))
	require.False(t, tr.IsPeerNextToReconcileWith(2, at(100)))

	require.True(t, tr.IsPeerNextToReconcileWith(2, at(104)))
	require.False(t, tr.IsPeerNextToReconcileWith(1, at(107)))

	require.True(t, tr.IsPeerNextToReconcileWith(1, at(110)))
}

func TestPendingRequestGating(t *testing.T) {
	tr := NewTracker(newSeededRand(21))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 1, 1))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 2, 1))

	// Cycle the queue (gap = 4s) twice, then mark peer 2 pending right after its turn.
	require.True(t, tr.IsPeerNextToReconcileWith(1, at(0)))  // queue: [2,1], next=4
	require.True(t, tr.IsPeerNextToReconcileWith(2, at(4)))  // queue: [1,2], next=8
	require.True(t, tr.IsPeerNextToReconcileWith(1, at(8)))  // queue: [2,1], next=12
	require.True(t, tr.IsPeerNextToReconcileWith(2, at(12))) // queue: [1,2], next=16

	_, ok := tr.InitiateReconciliationRequest(2, at(12))
	require.True(t, ok)

	require.True(t, tr.IsPeerNextToReconcileWith(1, at(16))) // queue: [2,1], next=20

	// peer 2 is head again at t=20, but its request from t=12 is still pending
	// and within RECON_RESPONSE_TIMEOUT (next=20, timeout=2s => gated until 22).
	require.False(t, tr.IsPeerNextToReconcileWith(2, at(20)))
	require.False(t, tr.IsPeerNextToReconcileWith(2, at(21)))

	// At t=22 the timeout has elapsed: the pending request no longer gates.
	require.True(t, tr.IsPeerNextToReconcileWith(2, at(22)))
}

func TestIsPeerNextToReconcileWithRejectsNonInitiators(t *testing.T) {
	tr := NewTracker(newSeededRand(22))
	require.Equal(t, ResultSuccess, registerInbound(tr, 1, 1))

	require.False(t, tr.IsPeerNextToReconcileWith(1, at(0)))
	require.False(t, tr.IsPeerNextToReconcileWith(99, at(0)))
}

func TestForgetPeerRemovesFromQueue(t *testing.T) {
	tr := NewTracker(newSeededRand(23))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 1, 1))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 2, 1))

	tr.ForgetPeer(1)
	require.False(t, tr.IsPeerNextToReconcileWith(1, at(0)))
	require.True(t, tr.IsPeerNextToReconcileWith(2, at(0)))
}
