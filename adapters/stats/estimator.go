package stats

import (
	"context"
	"math"

	"lizardflip/domain/flip"
	"lizardflip/ports"
)

// ConjugateEstimator computes posteriors with the exact Beta-Binomial
// closed-form update. Counting successes is O(n) in the trial count; every
// derived quantity afterwards is O(1).
type ConjugateEstimator struct {
	dist ports.DistributionPort
}

// NewConjugateEstimator creates an estimator backed by the given distributions
func NewConjugateEstimator(dist ports.DistributionPort) *ConjugateEstimator {
	return &ConjugateEstimator{dist: dist}
}

// Method identifies the estimation strategy
func (e *ConjugateEstimator) Method() flip.EstimationMethod {
	return flip.MethodConjugate
}

// Estimate performs the conjugate update and derives the summary, optional
// model comparison, and optional density curve
func (e *ConjugateEstimator) Estimate(ctx context.Context, prior flip.Prior, trials flip.TrialSequence, opts ports.EstimateOptions) (*flip.Analysis, error) {
	opts = normalizeOptions(opts)

	posterior, err := flip.UpdateConjugate(prior, trials)
	if err != nil {
		return nil, err
	}

	summary := summarize(e.dist, posterior.Params, opts.IntervalMass)

	analysis, err := flip.NewAnalysis(flip.MethodConjugate, trials.Counts(), prior.Params, posterior.Params, summary)
	if err != nil {
		return nil, err
	}
	analysis.Label = opts.Label

	if opts.Compare {
		comparison := e.compare(trials, prior.Params, posterior.Params, opts.NullTheta)
		analysis.Comparison = &comparison
	}
	if opts.CurvePoints > 0 {
		analysis.Curve = DensityCurve(e.dist, prior.Params, posterior.Params, opts.CurvePoints)
	}
	return analysis, nil
}

// compare evaluates the null model against the Beta-prior alternative. The
// marginal likelihood comes from the Bayes-rule rearrangement evaluated at
// the posterior mean, which is always interior for valid parameters.
func (e *ConjugateEstimator) compare(trials flip.TrialSequence, prior, posterior flip.BetaParams, nullTheta float64) flip.ModelComparison {
	k, n := trials.Successes(), trials.Len()
	thetaEval := posterior.Mean()

	logLikeNull := e.dist.BinomialLogPMF(k, n, nullTheta)
	logMarginal := flip.MarginalLogLikelihood(
		e.dist.BinomialLogPMF(k, n, thetaEval),
		e.dist.BetaLogPDF(thetaEval, prior.Alpha, prior.Beta),
		e.dist.BetaLogPDF(thetaEval, posterior.Alpha, posterior.Beta),
	)
	return flip.NewModelComparison(nullTheta, logLikeNull, logMarginal)
}

// summarize derives the scalar outputs from posterior parameters
func summarize(dist ports.DistributionPort, posterior flip.BetaParams, mass float64) flip.Summary {
	variance := posterior.Variance()
	tail := (1 - mass) / 2
	return flip.Summary{
		Mean:     posterior.Mean(),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Interval: flip.CredibleInterval{
			Lower: dist.BetaQuantile(tail, posterior.Alpha, posterior.Beta),
			Upper: dist.BetaQuantile(1-tail, posterior.Alpha, posterior.Beta),
			Mass:  mass,
		},
	}
}

// DensityCurve samples the prior and posterior densities on a uniform theta
// grid for presentation
func DensityCurve(dist ports.DistributionPort, prior, posterior flip.BetaParams, points int) []flip.CurvePoint {
	if points < 2 {
		points = 2
	}
	curve := make([]flip.CurvePoint, points)
	for i := range curve {
		theta := float64(i) / float64(points-1)
		curve[i] = flip.CurvePoint{
			Theta:            theta,
			PriorDensity:     finiteDensity(dist.BetaPDF(theta, prior.Alpha, prior.Beta)),
			PosteriorDensity: finiteDensity(dist.BetaPDF(theta, posterior.Alpha, posterior.Beta)),
		}
	}
	return curve
}

// finiteDensity zeroes boundary singularities so curves stay serializable
func finiteDensity(v float64) float64 {
	if math.IsInf(v, 1) || math.IsNaN(v) {
		return 0
	}
	return v
}

// normalizeOptions fills in defaults for zero-valued options
func normalizeOptions(opts ports.EstimateOptions) ports.EstimateOptions {
	if opts.IntervalMass <= 0 || opts.IntervalMass >= 1 {
		opts.IntervalMass = 0.95
	}
	if opts.NullTheta < 0 || opts.NullTheta > 1 {
		opts.NullTheta = 0.5
	}
	return opts
}
