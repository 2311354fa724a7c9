package stats

import (
	"context"
	"errors"
	"math"
	"testing"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/ports"
)

func TestNewGridEstimator_RejectsCoarseGrids(t *testing.T) {
	for _, points := range []int{-1, 0, 1, 2} {
		if _, err := NewGridEstimator(NewDistributions(), points); !errors.Is(err, core.ErrGridTooCoarse) {
			t.Errorf("points=%d: expected ErrGridTooCoarse, got %v", points, err)
		}
	}
	if _, err := NewGridEstimator(NewDistributions(), 3); err != nil {
		t.Errorf("points=3 should be accepted, got %v", err)
	}
}

func TestGridEstimator_AgreesWithConjugate(t *testing.T) {
	dist := NewDistributions()
	grid, err := NewGridEstimator(dist, 2001)
	if err != nil {
		t.Fatal(err)
	}
	conjugate := NewConjugateEstimator(dist)
	ctx := context.Background()

	cases := []struct {
		name          string
		prior         flip.BetaParams
		trials, heads int
	}{
		{"worked example", flip.BetaParams{Alpha: 1, Beta: 1}, 10, 7},
		{"rare successes", flip.BetaParams{Alpha: 1, Beta: 1}, 100, 10},
		{"informative prior", flip.BetaParams{Alpha: 5, Beta: 2}, 50, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trials, _ := flip.NewTrialSequenceFromCounts(tc.trials, tc.heads)
			prior := flip.Prior{Params: tc.prior}

			exact, err := conjugate.Estimate(ctx, prior, trials, ports.DefaultEstimateOptions())
			if err != nil {
				t.Fatal(err)
			}
			approx, err := grid.Estimate(ctx, prior, trials, ports.DefaultEstimateOptions())
			if err != nil {
				t.Fatal(err)
			}

			if approx.Method != flip.MethodGrid {
				t.Errorf("want method grid, got %s", approx.Method)
			}
			if gap := math.Abs(approx.Summary.Mean - exact.Summary.Mean); gap > 1e-4 {
				t.Errorf("mean gap %g exceeds tolerance", gap)
			}
			if gap := math.Abs(approx.Summary.Variance - exact.Summary.Variance); gap > 1e-4 {
				t.Errorf("variance gap %g exceeds tolerance", gap)
			}
			if gap := math.Abs(approx.Summary.Interval.Lower - exact.Summary.Interval.Lower); gap > 1e-2 {
				t.Errorf("lower bound gap %g exceeds tolerance", gap)
			}
			if gap := math.Abs(approx.Summary.Interval.Upper - exact.Summary.Interval.Upper); gap > 1e-2 {
				t.Errorf("upper bound gap %g exceeds tolerance", gap)
			}
		})
	}
}

func TestGridEstimator_MomentMatchedPosteriorIsValid(t *testing.T) {
	grid, err := NewGridEstimator(NewDistributions(), 501)
	if err != nil {
		t.Fatal(err)
	}
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)

	analysis, err := grid.Estimate(context.Background(), flip.UniformPrior(), trials, ports.DefaultEstimateOptions())
	if err != nil {
		t.Fatal(err)
	}
	if verr := analysis.Posterior.Validate(); verr != nil {
		t.Errorf("moment-matched posterior invalid: %v", verr)
	}
	// Should be close to the exact Beta(8, 4)
	if math.Abs(analysis.Posterior.Alpha-8) > 0.1 {
		t.Errorf("alpha: want ~8, got %g", analysis.Posterior.Alpha)
	}
	if math.Abs(analysis.Posterior.Beta-4) > 0.1 {
		t.Errorf("beta: want ~4, got %g", analysis.Posterior.Beta)
	}
}

func TestGridEstimator_ComparisonUsesExactPosterior(t *testing.T) {
	dist := NewDistributions()
	grid, err := NewGridEstimator(dist, 501)
	if err != nil {
		t.Fatal(err)
	}
	conjugate := NewConjugateEstimator(dist)
	ctx := context.Background()
	trials, _ := flip.NewTrialSequenceFromCounts(100, 10)

	opts := ports.DefaultEstimateOptions()
	opts.Compare = true
	opts.NullTheta = 0.1

	gridAnalysis, err := grid.Estimate(ctx, flip.UniformPrior(), trials, opts)
	if err != nil {
		t.Fatal(err)
	}
	exactAnalysis, err := conjugate.Estimate(ctx, flip.UniformPrior(), trials, opts)
	if err != nil {
		t.Fatal(err)
	}

	if gridAnalysis.Comparison == nil || exactAnalysis.Comparison == nil {
		t.Fatal("comparison requested but missing")
	}
	if gridAnalysis.Comparison.MarginalLikelihood != exactAnalysis.Comparison.MarginalLikelihood {
		t.Errorf("grid comparison should match exact: %g vs %g",
			gridAnalysis.Comparison.MarginalLikelihood, exactAnalysis.Comparison.MarginalLikelihood)
	}
}

func TestGridEstimator_InvalidInputs(t *testing.T) {
	grid, err := NewGridEstimator(NewDistributions(), 101)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)
	badPrior := flip.Prior{Params: flip.BetaParams{Alpha: -1, Beta: 2}}
	if _, err := grid.Estimate(ctx, badPrior, trials, ports.DefaultEstimateOptions()); !errors.Is(err, core.ErrInvalidPrior) {
		t.Errorf("expected ErrInvalidPrior, got %v", err)
	}
	if _, err := grid.Estimate(ctx, flip.UniformPrior(), flip.TrialSequence{}, ports.DefaultEstimateOptions()); !errors.Is(err, core.ErrEmptyTrials) {
		t.Errorf("expected ErrEmptyTrials, got %v", err)
	}
}

// zeroMassDistribution reports zero density everywhere, starving the grid of
// posterior mass
type zeroMassDistribution struct{}

func (zeroMassDistribution) BetaPDF(theta, alpha, beta float64) float64     { return 0 }
func (zeroMassDistribution) BetaLogPDF(theta, alpha, beta float64) float64  { return math.Inf(-1) }
func (zeroMassDistribution) BetaCDF(theta, alpha, beta float64) float64     { return 0 }
func (zeroMassDistribution) BetaQuantile(p, alpha, beta float64) float64    { return 0 }
func (zeroMassDistribution) BinomialPMF(k, n int, theta float64) float64    { return 0 }
func (zeroMassDistribution) BinomialLogPMF(k, n int, theta float64) float64 { return math.Inf(-1) }

func TestGridEstimator_VanishedPosteriorMass(t *testing.T) {
	grid, err := NewGridEstimator(zeroMassDistribution{}, 101)
	if err != nil {
		t.Fatal(err)
	}
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)

	_, err = grid.Estimate(context.Background(), flip.UniformPrior(), trials, ports.DefaultEstimateOptions())
	if !errors.Is(err, core.ErrEstimationFailed) {
		t.Fatalf("expected ErrEstimationFailed, got %v", err)
	}
}
