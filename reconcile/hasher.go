package reconcile

import (
	"encoding/binary"

	"github.com/dchest/siphash"
)

// ShortIDHasher is the opaque keyed-hash collaborator passed in by the relay
// loop, derived from the combined salts of a registered peer (see
// CombineSalts). The tracker builds one itself only when deciding a peer's
// chosen-for-fanout bit, keyed on its own fanout secret; ShouldFanoutTo only
// ever invokes the caller's hasher to rank peers, and never reseeds it.
type ShortIDHasher struct {
	K0, K1 uint64
}

// CombineSalts derives the two 64-bit short-ID hasher keys from the local and
// remote peer salts, in initiator-then-responder order so both ends agree on
// the same seed regardless of which side computes it.
func CombineSalts(initiatorSalt, responderSalt uint64) ShortIDHasher {
	return ShortIDHasher{K0: initiatorSalt, K1: responderSalt}
}

// rankPeer computes the deterministic, transaction-specific rank of peerID
// under the given wtxid and hasher. Lower rank values are "more selected" for
// fanout; the actual cutoff is applied by the caller (ShouldFanoutTo).
func rankPeer(wtxid Wtxid, hasher ShortIDHasher, peerID PeerID) uint64 {
	var buf [40]byte
	copy(buf[:32], wtxid[:])
	binary.LittleEndian.PutUint64(buf[32:], uint64(peerID))
	return siphash.Hash(hasher.K0, hasher.K1, buf[:])
}
