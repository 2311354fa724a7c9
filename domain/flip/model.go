package flip

import (
	"fmt"

	"lizardflip/domain/core"
)

// UpdateConjugate performs the exact Beta-Binomial conjugate update:
// Beta(a0 + successes, b0 + failures). The update is deterministic and
// carries no approximation error.
func UpdateConjugate(prior Prior, trials TrialSequence) (Posterior, error) {
	return UpdateCounts(prior, trials.Successes(), trials.Failures())
}

// UpdateCounts performs the conjugate update from aggregate counts
func UpdateCounts(prior Prior, successes, failures int) (Posterior, error) {
	if err := prior.Params.Validate(); err != nil {
		return Posterior{}, err
	}
	if successes < 0 || failures < 0 {
		return Posterior{}, fmt.Errorf("%w: %d successes, %d failures", core.ErrCountMismatch, successes, failures)
	}
	if successes+failures == 0 {
		return Posterior{}, core.ErrEmptyTrials
	}
	return Posterior{Params: BetaParams{
		Alpha: prior.Params.Alpha + float64(successes),
		Beta:  prior.Params.Beta + float64(failures),
	}}, nil
}
