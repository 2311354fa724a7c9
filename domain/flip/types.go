package flip

import (
	"fmt"
	"math"

	"lizardflip/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Outcome is a single binary trial result. In the lizard-flipping example a
// success is a lizard landing belly-up.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Valid reports whether the outcome is a member of {success, failure}
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeFailure
}

// TrialSequence is an ordered, immutable collection of binary outcomes.
// INVARIANTS:
// - Non-empty
// - Every outcome is in {success, failure}
// - Successes() + Failures() == Len() exactly
type TrialSequence struct {
	outcomes  []Outcome
	successes int
}

// NewTrialSequence validates and records a sequence of outcomes
func NewTrialSequence(outcomes []Outcome) (TrialSequence, error) {
	if len(outcomes) == 0 {
		return TrialSequence{}, core.ErrEmptyTrials
	}
	successes := 0
	for i, o := range outcomes {
		if !o.Valid() {
			return TrialSequence{}, fmt.Errorf("%w: %q at index %d", core.ErrInvalidOutcome, o, i)
		}
		if o == OutcomeSuccess {
			successes++
		}
	}
	copied := make([]Outcome, len(outcomes))
	copy(copied, outcomes)
	return TrialSequence{outcomes: copied, successes: successes}, nil
}

// NewTrialSequenceFromCounts builds a sequence from aggregate counts
// (the "n flips, k heads" form of the original demonstration)
func NewTrialSequenceFromCounts(trials, successes int) (TrialSequence, error) {
	if trials <= 0 {
		return TrialSequence{}, core.ErrEmptyTrials
	}
	if successes < 0 || successes > trials {
		return TrialSequence{}, fmt.Errorf("%w: %d successes in %d trials", core.ErrCountMismatch, successes, trials)
	}
	outcomes := make([]Outcome, trials)
	for i := range outcomes {
		if i < successes {
			outcomes[i] = OutcomeSuccess
		} else {
			outcomes[i] = OutcomeFailure
		}
	}
	return TrialSequence{outcomes: outcomes, successes: successes}, nil
}

// MustNewTrialSequence builds a sequence (panics on invalid input)
// Use only in tests and fixtures - production code should handle validation errors
func MustNewTrialSequence(outcomes []Outcome) TrialSequence {
	seq, err := NewTrialSequence(outcomes)
	if err != nil {
		panic(err)
	}
	return seq
}

// Len returns the number of trials
func (t TrialSequence) Len() int { return len(t.outcomes) }

// Successes returns the number of success outcomes
func (t TrialSequence) Successes() int { return t.successes }

// Failures returns the number of failure outcomes
func (t TrialSequence) Failures() int { return len(t.outcomes) - t.successes }

// Outcomes returns a defensive copy of the recorded outcomes
func (t TrialSequence) Outcomes() []Outcome {
	copied := make([]Outcome, len(t.outcomes))
	copy(copied, t.outcomes)
	return copied
}

// Counts returns the derived aggregate view of the sequence
func (t TrialSequence) Counts() TrialCounts {
	return TrialCounts{
		Trials:    t.Len(),
		Successes: t.Successes(),
		Failures:  t.Failures(),
	}
}

// TrialCounts is the aggregate view persisted with an analysis
type TrialCounts struct {
	Trials    int `json:"trials"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// BetaParams are the hyperparameters of a Beta distribution over the
// success probability theta.
// INVARIANTS: Alpha > 0 and Beta > 0 always
type BetaParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Validate checks the positivity invariant
func (p BetaParams) Validate() error {
	if p.Alpha <= 0 || p.Beta <= 0 || math.IsNaN(p.Alpha) || math.IsNaN(p.Beta) {
		return core.NewPriorError(p.Alpha, p.Beta)
	}
	return nil
}

// Mean returns alpha / (alpha + beta)
func (p BetaParams) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// Variance returns alpha*beta / ((alpha+beta)^2 (alpha+beta+1))
func (p BetaParams) Variance() float64 {
	s := p.Alpha + p.Beta
	return (p.Alpha * p.Beta) / (s * s * (s + 1))
}

// Mode returns the density mode and whether it is defined (requires alpha,beta > 1)
func (p BetaParams) Mode() (float64, bool) {
	if p.Alpha <= 1 || p.Beta <= 1 {
		return 0, false
	}
	return (p.Alpha - 1) / (p.Alpha + p.Beta - 2), true
}

// String renders the conventional Beta(a, b) form
func (p BetaParams) String() string {
	return fmt.Sprintf("Beta(%g, %g)", p.Alpha, p.Beta)
}

// Prior is the distribution over theta fixed before observing data
type Prior struct {
	Params BetaParams `json:"params"`
}

// NewPrior validates and records prior hyperparameters
func NewPrior(alpha, beta float64) (Prior, error) {
	p := BetaParams{Alpha: alpha, Beta: beta}
	if err := p.Validate(); err != nil {
		return Prior{}, err
	}
	return Prior{Params: p}, nil
}

// MustNewPrior builds a prior (panics on invalid hyperparameters)
// Intended for tests and fixtures with known-valid inputs.
func MustNewPrior(alpha, beta float64) Prior {
	p, err := NewPrior(alpha, beta)
	if err != nil {
		panic(err)
	}
	return p
}

// UniformPrior returns the flat Beta(1, 1) prior
func UniformPrior() Prior {
	return Prior{Params: BetaParams{Alpha: 1, Beta: 1}}
}

// Posterior is the distribution over theta after conditioning on data.
// It is derived deterministically and never mutated.
type Posterior struct {
	Params BetaParams `json:"params"`
}

// ============================================================================
// DERIVED OUTPUTS
// ============================================================================

// CredibleInterval is an equal-tailed Bayesian interval estimate
type CredibleInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Mass  float64 `json:"mass"` // e.g. 0.95 for the 2.5%-97.5% interval
}

// Summary holds the scalar outputs derived from a posterior.
// INVARIANTS:
// - Mean strictly in (0, 1)
// - Interval.Lower <= Mean <= Interval.Upper
type Summary struct {
	Mean     float64          `json:"mean"`
	Variance float64          `json:"variance"`
	StdDev   float64          `json:"std_dev"`
	Interval CredibleInterval `json:"credible_interval"`
}

// CurvePoint is one sampled point of a density curve (presentation data)
type CurvePoint struct {
	Theta            float64 `json:"theta"`
	PriorDensity     float64 `json:"prior_density"`
	PosteriorDensity float64 `json:"posterior_density"`
}

// EstimationMethod identifies how the posterior was computed
type EstimationMethod string

const (
	MethodConjugate EstimationMethod = "conjugate" // exact closed-form update
	MethodGrid      EstimationMethod = "grid"      // numerical grid approximation
)

// ============================================================================
// DOMAIN ARTIFACTS
// ============================================================================

// Analysis is the complete record of one posterior-estimation run
type Analysis struct {
	ID         core.AnalysisID  `json:"id"`
	Label      string           `json:"label,omitempty"`
	Method     EstimationMethod `json:"method"`
	Trials     TrialCounts      `json:"trials"`
	Prior      BetaParams       `json:"prior"`
	Posterior  BetaParams       `json:"posterior"`
	Summary    Summary          `json:"summary"`
	Comparison *ModelComparison `json:"comparison,omitempty"`
	Curve      []CurvePoint     `json:"curve,omitempty"`
	CreatedAt  core.Timestamp   `json:"created_at"`
}

// NewAnalysis creates an analysis artifact with validation
func NewAnalysis(method EstimationMethod, trials TrialCounts, prior, posterior BetaParams, summary Summary) (*Analysis, error) {
	if err := validateAnalysis(trials, prior, posterior, summary); err != nil {
		return nil, err
	}
	return &Analysis{
		ID:        core.AnalysisID(core.NewID()),
		Method:    method,
		Trials:    trials,
		Prior:     prior,
		Posterior: posterior,
		Summary:   summary,
		CreatedAt: core.Now(),
	}, nil
}

// validateAnalysis checks invariants for analysis artifacts
func validateAnalysis(trials TrialCounts, prior, posterior BetaParams, summary Summary) error {
	if trials.Trials <= 0 {
		return core.ErrEmptyTrials
	}
	if trials.Successes+trials.Failures != trials.Trials {
		return fmt.Errorf("%w: %d + %d != %d", core.ErrCountMismatch,
			trials.Successes, trials.Failures, trials.Trials)
	}
	if err := prior.Validate(); err != nil {
		return err
	}
	if err := posterior.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidPosterior, err)
	}
	if summary.Mean <= 0 || summary.Mean >= 1 {
		return fmt.Errorf("%w: posterior mean %g", core.ErrProbabilityRange, summary.Mean)
	}
	if summary.Interval.Lower > summary.Mean || summary.Interval.Upper < summary.Mean {
		return fmt.Errorf("credible interval [%g, %g] does not bracket mean %g",
			summary.Interval.Lower, summary.Interval.Upper, summary.Mean)
	}
	return nil
}
