package engine

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// RandomSource is the only source of nondeterminism in the engine.
// *frand.RNG and *math/rand.Rand both satisfy it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// NewRandomSource returns a source seeded from system entropy.
func NewRandomSource() RandomSource {
	return frand.New()
}

// NewSeededSource returns a deterministic source; equal seeds replay equal games.
func NewSeededSource(seed int64) RandomSource {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, uint64(seed))
	return frand.NewCustom(key, 1024, 12)
}
