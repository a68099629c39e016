package reconcile

// RandSource supplies 64-bit randomness to the tracker for salt and
// fanout-secret generation. Production callers should back this with
// crypto/rand (see relay.CryptoRandSource); tests inject a deterministic
// source so that scenarios are reproducible.
type RandSource interface {
	Uint64() uint64
}
