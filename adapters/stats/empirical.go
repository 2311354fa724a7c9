package stats

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"

	"lizardflip/domain/flip"
	"lizardflip/internal/errors"
	"lizardflip/ports"
)

// EmpiricalSummarizer cross-checks the analytic summary by drawing from the
// posterior with inverse-CDF sampling and summarizing the draws. Intended as
// a sanity check in demonstrations, not a replacement for the closed form.
type EmpiricalSummarizer struct {
	dist ports.DistributionPort
	rng  ports.RNGPort
}

// NewEmpiricalSummarizer creates a summarizer with the given RNG source
func NewEmpiricalSummarizer(dist ports.DistributionPort, rng ports.RNGPort) *EmpiricalSummarizer {
	return &EmpiricalSummarizer{dist: dist, rng: rng}
}

// Summarize draws from Beta(posterior) and computes empirical mean, variance
// and percentile interval. The same seed always yields the same summary.
func (s *EmpiricalSummarizer) Summarize(ctx context.Context, posterior flip.BetaParams, draws int, mass float64, seed int64) (flip.Summary, error) {
	if err := posterior.Validate(); err != nil {
		return flip.Summary{}, err
	}
	if draws < 2 {
		return flip.Summary{}, errors.InvalidInput("empirical summary needs at least 2 draws")
	}
	if mass <= 0 || mass >= 1 {
		mass = 0.95
	}

	stream, err := s.rng.SeededStream(ctx, "empirical-summary", seed)
	if err != nil {
		return flip.Summary{}, errors.Wrap(err, "failed to create RNG stream")
	}

	samples := make([]float64, draws)
	for i := range samples {
		samples[i] = s.dist.BetaQuantile(stream.Float64(), posterior.Alpha, posterior.Beta)
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return flip.Summary{}, errors.Wrap(err, "empirical mean")
	}
	variance, err := stats.SampleVariance(samples)
	if err != nil {
		return flip.Summary{}, errors.Wrap(err, "empirical variance")
	}
	tail := (1 - mass) / 2 * 100
	lower, err := stats.Percentile(samples, tail)
	if err != nil {
		return flip.Summary{}, errors.Wrap(err, "empirical lower percentile")
	}
	upper, err := stats.Percentile(samples, 100-tail)
	if err != nil {
		return flip.Summary{}, errors.Wrap(err, "empirical upper percentile")
	}

	return flip.Summary{
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Interval: flip.CredibleInterval{Lower: lower, Upper: upper, Mass: mass},
	}, nil
}
