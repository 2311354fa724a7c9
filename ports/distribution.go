package ports

// DistributionPort provides the Beta and Binomial distribution functions the
// estimators need. Implementations must be deterministic: the same inputs
// always produce the same outputs.
type DistributionPort interface {
	// BetaPDF evaluates the Beta(alpha, beta) density at theta
	BetaPDF(theta, alpha, beta float64) float64

	// BetaLogPDF evaluates the log density at theta
	BetaLogPDF(theta, alpha, beta float64) float64

	// BetaCDF evaluates the cumulative distribution at theta
	BetaCDF(theta, alpha, beta float64) float64

	// BetaQuantile evaluates the inverse CDF at probability p
	BetaQuantile(p, alpha, beta float64) float64

	// BinomialPMF evaluates P(K = k) for Binomial(n, theta)
	BinomialPMF(k, n int, theta float64) float64

	// BinomialLogPMF evaluates log P(K = k) for Binomial(n, theta)
	BinomialLogPMF(k, n int, theta float64) float64
}
