package reconcile

import "math/rand"

// seededRand is a deterministic RandSource for tests, seeded explicitly so
// scenarios are reproducible.
type seededRand struct {
	r *rand.Rand
}

func newSeededRand(seed int64) *seededRand {
	return &seededRand{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRand) Uint64() uint64 {
	return s.r.Uint64()
}

// wtxidFromInt produces a distinct Wtxid per input value, for test fixtures.
func wtxidFromInt(v int) Wtxid {
	var w Wtxid
	w[0] = byte(v)
	w[1] = byte(v >> 8)
	w[2] = byte(v >> 16)
	w[3] = byte(v >> 24)
	return w
}
