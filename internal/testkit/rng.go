package testkit

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// SeededRNG implements ports.RNGPort with deterministic streams. The stream
// seed mixes the operation name into the base seed so distinct operations
// with the same seed do not share a sequence.
type SeededRNG struct{}

// NewSeededRNG creates a deterministic RNG adapter
func NewSeededRNG() *SeededRNG {
	return &SeededRNG{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (s *SeededRNG) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	mixed := seed ^ int64(h.Sum64())
	return rand.New(rand.NewSource(mixed)), nil
}
