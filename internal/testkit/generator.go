package testkit

import (
	"context"

	"lizardflip/domain/flip"
	"lizardflip/ports"
)

// FlipGenerator produces synthetic trial sequences with a known true success
// rate, for convergence checks and demo data
type FlipGenerator struct {
	rng ports.RNGPort
}

// NewFlipGenerator creates a generator over the given RNG source
func NewFlipGenerator(rng ports.RNGPort) *FlipGenerator {
	return &FlipGenerator{rng: rng}
}

// Generate flips n trials with success probability trueRate. The same seed
// always produces the same sequence.
func (g *FlipGenerator) Generate(ctx context.Context, n int, trueRate float64, seed int64) (flip.TrialSequence, error) {
	stream, err := g.rng.SeededStream(ctx, "flip-generator", seed)
	if err != nil {
		return flip.TrialSequence{}, err
	}

	outcomes := make([]flip.Outcome, n)
	for i := range outcomes {
		if stream.Float64() < trueRate {
			outcomes[i] = flip.OutcomeSuccess
		} else {
			outcomes[i] = flip.OutcomeFailure
		}
	}
	return flip.NewTrialSequence(outcomes)
}
