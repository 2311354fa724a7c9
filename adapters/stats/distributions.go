package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides unified access to the Beta and Binomial
// distribution functions backed by gonum. It implements
// ports.DistributionPort.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// BetaPDF evaluates the Beta(alpha, beta) density at theta
func (d *Distributions) BetaPDF(theta, alpha, beta float64) float64 {
	if alpha <= 0 || beta <= 0 {
		return 0
	}
	if theta < 0 || theta > 1 {
		return 0
	}
	return math.Exp(d.BetaLogPDF(theta, alpha, beta))
}

// BetaLogPDF evaluates the Beta(alpha, beta) log density at theta. The
// support boundaries are handled here: gonum's x^(alpha-1) term produces NaN
// at theta = 0 when alpha = 1 (and symmetrically at theta = 1).
func (d *Distributions) BetaLogPDF(theta, alpha, beta float64) float64 {
	if alpha <= 0 || beta <= 0 || theta < 0 || theta > 1 {
		return math.Inf(-1)
	}
	switch theta {
	case 0:
		switch {
		case alpha > 1:
			return math.Inf(-1)
		case alpha == 1:
			return math.Log(beta)
		default:
			return math.Inf(1)
		}
	case 1:
		switch {
		case beta > 1:
			return math.Inf(-1)
		case beta == 1:
			return math.Log(alpha)
		default:
			return math.Inf(1)
		}
	}
	return distuv.Beta{Alpha: alpha, Beta: beta}.LogProb(theta)
}

// BetaCDF evaluates the Beta(alpha, beta) cumulative distribution at theta
func (d *Distributions) BetaCDF(theta, alpha, beta float64) float64 {
	if alpha <= 0 || beta <= 0 {
		return 0
	}
	if theta <= 0 {
		return 0
	}
	if theta >= 1 {
		return 1
	}
	return distuv.Beta{Alpha: alpha, Beta: beta}.CDF(theta)
}

// BetaQuantile evaluates the Beta(alpha, beta) inverse CDF at probability p
func (d *Distributions) BetaQuantile(p, alpha, beta float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return distuv.Beta{Alpha: alpha, Beta: beta}.Quantile(p)
}

// BinomialPMF evaluates P(K = k) for Binomial(n, theta)
func (d *Distributions) BinomialPMF(k, n int, theta float64) float64 {
	return math.Exp(d.BinomialLogPMF(k, n, theta))
}

// BinomialLogPMF evaluates log P(K = k) for Binomial(n, theta). Degenerate
// success probabilities are handled here for the same reason as the Beta
// boundaries.
func (d *Distributions) BinomialLogPMF(k, n int, theta float64) float64 {
	if k < 0 || n < 0 || k > n || theta < 0 || theta > 1 {
		return math.Inf(-1)
	}
	if theta == 0 {
		if k == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	if theta == 1 {
		if k == n {
			return 0
		}
		return math.Inf(-1)
	}
	return distuv.Binomial{N: float64(n), P: theta}.LogProb(float64(k))
}
