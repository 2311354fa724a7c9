package stats

import (
	"context"
	"fmt"
	"math"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/ports"
)

// GridEstimator approximates the posterior numerically: it evaluates
// prior density times binomial likelihood on a uniform theta grid and
// normalizes with the trapezoid rule. For the Beta-Binomial pair the result
// converges to the conjugate answer as the grid is refined, which makes this
// estimator a useful cross-check of the closed form.
type GridEstimator struct {
	dist   ports.DistributionPort
	points int
}

// NewGridEstimator creates a grid estimator with the given resolution
func NewGridEstimator(dist ports.DistributionPort, points int) (*GridEstimator, error) {
	if points < 3 {
		return nil, core.ErrGridTooCoarse
	}
	return &GridEstimator{dist: dist, points: points}, nil
}

// Method identifies the estimation strategy
func (e *GridEstimator) Method() flip.EstimationMethod {
	return flip.MethodGrid
}

// Estimate computes the grid posterior and derives the summary. The
// posterior parameters reported on the artifact are moment-matched Beta
// hyperparameters fitted to the grid mean and variance.
func (e *GridEstimator) Estimate(ctx context.Context, prior flip.Prior, trials flip.TrialSequence, opts ports.EstimateOptions) (*flip.Analysis, error) {
	opts = normalizeOptions(opts)

	if err := prior.Params.Validate(); err != nil {
		return nil, err
	}
	if trials.Len() == 0 {
		return nil, core.ErrEmptyTrials
	}

	theta, density, err := e.gridPosterior(prior.Params, trials)
	if err != nil {
		return nil, err
	}

	mean := trapezoid(theta, weighted(theta, density, func(t float64) float64 { return t }))
	second := trapezoid(theta, weighted(theta, density, func(t float64) float64 { return t * t }))
	variance := second - mean*mean
	if variance < 0 {
		variance = 0
	}

	tail := (1 - opts.IntervalMass) / 2
	lower := quantileFromGrid(theta, density, tail)
	upper := quantileFromGrid(theta, density, 1-tail)

	posterior := momentMatchedBeta(mean, variance)
	summary := flip.Summary{
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Interval: flip.CredibleInterval{Lower: lower, Upper: upper, Mass: opts.IntervalMass},
	}

	analysis, err := flip.NewAnalysis(flip.MethodGrid, trials.Counts(), prior.Params, posterior, summary)
	if err != nil {
		return nil, err
	}
	analysis.Label = opts.Label

	if opts.Compare {
		// The conjugate posterior is exact for this model, so the comparison
		// reuses it even when the point estimates come from the grid.
		exact, updateErr := flip.UpdateCounts(prior, trials.Successes(), trials.Failures())
		if updateErr == nil {
			conjugate := NewConjugateEstimator(e.dist)
			comparison := conjugate.compare(trials, prior.Params, exact.Params, opts.NullTheta)
			analysis.Comparison = &comparison
		}
	}
	if opts.CurvePoints > 0 {
		analysis.Curve = DensityCurve(e.dist, prior.Params, posterior, opts.CurvePoints)
	}
	return analysis, nil
}

// gridPosterior evaluates the unnormalized posterior on the grid and
// normalizes it to integrate to one
func (e *GridEstimator) gridPosterior(prior flip.BetaParams, trials flip.TrialSequence) (theta, density []float64, err error) {
	k, n := trials.Successes(), trials.Len()

	theta = make([]float64, e.points)
	density = make([]float64, e.points)
	for i := range theta {
		t := float64(i) / float64(e.points-1)
		theta[i] = t
		// Work on the log scale to survive large trial counts
		logUnnorm := e.dist.BetaLogPDF(t, prior.Alpha, prior.Beta) + e.dist.BinomialLogPMF(k, n, t)
		// Priors with alpha or beta below 1 have an integrable singularity
		// at the boundary; the grid drops that cell rather than letting it
		// poison the normalization
		if math.IsNaN(logUnnorm) || math.IsInf(logUnnorm, 1) {
			logUnnorm = math.Inf(-1)
		}
		density[i] = logUnnorm
	}

	// Shift by the max before exponentiating
	maxLog := math.Inf(-1)
	for _, v := range density {
		if v > maxLog {
			maxLog = v
		}
	}
	for i, v := range density {
		if math.IsInf(v, -1) {
			density[i] = 0
		} else {
			density[i] = math.Exp(v - maxLog)
		}
	}

	norm := trapezoid(theta, density)
	if norm <= 0 || math.IsNaN(norm) {
		// Every cell underflowed or was dropped; no quantile or moment can
		// be read off such a grid
		return nil, nil, fmt.Errorf("%w: posterior mass vanished on a %d-point grid", core.ErrEstimationFailed, e.points)
	}
	for i := range density {
		density[i] /= norm
	}
	return theta, density, nil
}

// quantileFromGrid interpolates the inverse of the discrete CDF
func quantileFromGrid(theta, density []float64, p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	cum := 0.0
	for i := 1; i < len(theta); i++ {
		step := (theta[i] - theta[i-1]) * (density[i] + density[i-1]) / 2
		if cum+step >= p {
			// Linear interpolation inside the cell
			if step <= 0 {
				return theta[i]
			}
			frac := (p - cum) / step
			return theta[i-1] + frac*(theta[i]-theta[i-1])
		}
		cum += step
	}
	return 1
}

// momentMatchedBeta fits Beta hyperparameters to a mean and variance
func momentMatchedBeta(mean, variance float64) flip.BetaParams {
	if mean <= 0 || mean >= 1 || variance <= 0 {
		// Degenerate grid; fall back to a sharply peaked but valid shape
		return flip.BetaParams{Alpha: math.Max(mean, 1e-6) * 1e6, Beta: math.Max(1-mean, 1e-6) * 1e6}
	}
	common := mean*(1-mean)/variance - 1
	if common <= 0 {
		common = 1e-6
	}
	return flip.BetaParams{Alpha: mean * common, Beta: (1 - mean) * common}
}

// trapezoid integrates y over x with the trapezoid rule
func trapezoid(x, y []float64) float64 {
	sum := 0.0
	for i := 1; i < len(x); i++ {
		sum += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return sum
}

// weighted maps each grid point through f and multiplies by the density
func weighted(theta, density []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(theta))
	for i, t := range theta {
		out[i] = f(t) * density[i]
	}
	return out
}
