package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldFanoutToUnregisteredPeerAlwaysFloods(t *testing.T) {
	tr := NewTracker(newSeededRand(10))
	hasher := CombineSalts(1, 2)

	require.True(t, tr.ShouldFanoutTo(wtxidFromInt(0), hasher, 999, NonReconcilingCounts{}))

	tr.PreRegisterPeer(999) // pre-registered, not yet Registered
	require.True(t, tr.ShouldFanoutTo(wtxidFromInt(0), hasher, 999, NonReconcilingCounts{}))
}

func TestShouldFanoutToSingleOutboundPeer(t *testing.T) {
	tr := NewTracker(newSeededRand(11))
	require.Equal(t, ResultSuccess, registerOutbound(tr, 0, 1))
	hasher := CombineSalts(5, 9)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		wtxid := wtxidFromInt(r.Int())
		require.True(t, tr.ShouldFanoutTo(wtxid, hasher, 0, NonReconcilingCounts{}))
	}

	for i := 0; i < 100; i++ {
		wtxid := wtxidFromInt(r.Int())
		require.False(t, tr.ShouldFanoutTo(wtxid, hasher, 0, NonReconcilingCounts{OutboundNonReconciling: 1}))
	}
}

func TestInboundFanoutFraction(t *testing.T) {
	tr := NewTracker(newSeededRand(12))
	for i := 1; i <= 30; i++ {
		require.Equal(t, ResultSuccess, registerInbound(tr, PeerID(i), 1))
	}
	hasher := CombineSalts(3, 4)

	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		wtxid := wtxidFromInt(r.Int())
		selected := 0
		for i := 1; i <= 30; i++ {
			if tr.ShouldFanoutTo(wtxid, hasher, PeerID(i), NonReconcilingCounts{}) {
				selected++
			}
		}
		require.Equal(t, 3, selected)
	}

	for trial := 0; trial < 20; trial++ {
		wtxid := wtxidFromInt(r.Int())
		selected := 0
		for i := 1; i <= 30; i++ {
			if tr.ShouldFanoutTo(wtxid, hasher, PeerID(i), NonReconcilingCounts{InboundNonReconciling: 4}) {
				selected++
			}
		}
		require.Equal(t, 0, selected)
	}
}

func TestChosenForFanoutUnknownPeer(t *testing.T) {
	tr := NewTracker(newSeededRand(13))
	_, ok := tr.IsPeerChosenForFlooding(123)
	require.False(t, ok)

	require.Equal(t, ResultSuccess, registerOutbound(tr, 123, 1))
	_, ok = tr.IsPeerChosenForFlooding(123)
	require.True(t, ok)
}

func TestShouldFanoutToIsDeterministic(t *testing.T) {
	tr := NewTracker(newSeededRand(14))
	for i := 1; i <= 10; i++ {
		require.Equal(t, ResultSuccess, registerInbound(tr, PeerID(i), 1))
	}
	hasher := CombineSalts(1, 1)
	wtxid := wtxidFromInt(123456)

	first := tr.ShouldFanoutTo(wtxid, hasher, 5, NonReconcilingCounts{})
	for i := 0; i < 5; i++ {
		require.Equal(t, first, tr.ShouldFanoutTo(wtxid, hasher, 5, NonReconcilingCounts{}))
	}
}
