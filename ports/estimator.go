package ports

import (
	"context"

	"lizardflip/domain/flip"
)

// EstimateOptions controls the derived outputs attached to an analysis
type EstimateOptions struct {
	// IntervalMass is the credible interval probability mass (default 0.95,
	// i.e. the 2.5%-97.5% equal-tailed interval)
	IntervalMass float64

	// Compare enables null-vs-alternative model comparison
	Compare bool

	// NullTheta is the success probability under the null model (default 0.5)
	NullTheta float64

	// CurvePoints is the number of density curve samples to attach; 0 disables
	CurvePoints int

	// Label is an optional caller-supplied name for the analysis
	Label string
}

// DefaultEstimateOptions returns the option set used when callers pass the
// zero value
func DefaultEstimateOptions() EstimateOptions {
	return EstimateOptions{
		IntervalMass: 0.95,
		NullTheta:    0.5,
	}
}

// EstimatorPort computes a posterior analysis from a prior and trial data.
// Implementations are stateless: each call is a pure function of its inputs.
type EstimatorPort interface {
	// Method identifies the estimation strategy
	Method() flip.EstimationMethod

	// Estimate validates inputs, updates the prior with the observed trials,
	// and returns the complete analysis artifact
	Estimate(ctx context.Context, prior flip.Prior, trials flip.TrialSequence, opts EstimateOptions) (*flip.Analysis, error)
}
