package flip

import (
	"encoding/json"
	"math"
)

// ModelComparison weighs a "null" model (theta fixed, typically 0.5) against
// the alternative model where theta varies under the Beta prior. Both models
// are given equal prior probability, so the posterior model probabilities
// reduce to each model's marginal likelihood over their sum.
type ModelComparison struct {
	NullTheta             float64 `json:"null_theta"`              // theta under the null model
	LogLikelihoodNull     float64 `json:"log_likelihood_null"`     // log p(data | null)
	LikelihoodNull        float64 `json:"likelihood_null"`         // p(data | null)
	LogMarginalLikelihood float64 `json:"log_marginal_likelihood"` // log p(data | alt)
	MarginalLikelihood    float64 `json:"marginal_likelihood"`     // p(data | alt)
	BayesFactor           float64 `json:"bayes_factor"`            // alt over null
	PosteriorProbNull     float64 `json:"posterior_prob_null"`
	PosteriorProbAlt      float64 `json:"posterior_prob_alt"`
}

// NewModelComparison combines the null-model likelihood with the alternative
// model's marginal likelihood. Inputs are on the log scale; the combination
// uses log-sum-exp so extreme trial counts do not underflow.
func NewModelComparison(nullTheta, logLikeNull, logMarginal float64) ModelComparison {
	logBF := logMarginal - logLikeNull

	// p(null | data) = 1 / (1 + BF) with equal model priors
	maxLog := math.Max(logLikeNull, logMarginal)
	denom := math.Exp(logLikeNull-maxLog) + math.Exp(logMarginal-maxLog)
	probNull := math.Exp(logLikeNull-maxLog) / denom
	probAlt := math.Exp(logMarginal-maxLog) / denom

	return ModelComparison{
		NullTheta:             nullTheta,
		LogLikelihoodNull:     logLikeNull,
		LikelihoodNull:        math.Exp(logLikeNull),
		LogMarginalLikelihood: logMarginal,
		MarginalLikelihood:    math.Exp(logMarginal),
		BayesFactor:           math.Exp(logBF),
		PosteriorProbNull:     probNull,
		PosteriorProbAlt:      probAlt,
	}
}

// MarginalLogLikelihood solves Bayes' rule for the marginal probability of
// the data: log p(data) = log p(data|theta) + log p(theta) - log p(theta|data),
// evaluated at any interior theta. The identity holds exactly for the
// conjugate pair, so the choice of evaluation point does not matter.
func MarginalLogLikelihood(logLikelihood, logPriorDensity, logPosteriorDensity float64) float64 {
	return logLikelihood + logPriorDensity - logPosteriorDensity
}

// comparisonWire is the serialized form. A null model with theta 0 or 1 can
// make the observed data impossible, driving the null log likelihood to -Inf
// and the Bayes factor to +Inf; encoding/json refuses non-finite values, so
// they are omitted on the wire.
type comparisonWire struct {
	NullTheta             float64  `json:"null_theta"`
	LogLikelihoodNull     *float64 `json:"log_likelihood_null,omitempty"`
	LikelihoodNull        float64  `json:"likelihood_null"`
	LogMarginalLikelihood *float64 `json:"log_marginal_likelihood,omitempty"`
	MarginalLikelihood    float64  `json:"marginal_likelihood"`
	BayesFactor           *float64 `json:"bayes_factor,omitempty"`
	PosteriorProbNull     float64  `json:"posterior_prob_null"`
	PosteriorProbAlt      float64  `json:"posterior_prob_alt"`
}

func (m ModelComparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(comparisonWire{
		NullTheta:             m.NullTheta,
		LogLikelihoodNull:     finiteOrOmitted(m.LogLikelihoodNull),
		LikelihoodNull:        m.LikelihoodNull,
		LogMarginalLikelihood: finiteOrOmitted(m.LogMarginalLikelihood),
		MarginalLikelihood:    m.MarginalLikelihood,
		BayesFactor:           finiteOrOmitted(m.BayesFactor),
		PosteriorProbNull:     m.PosteriorProbNull,
		PosteriorProbAlt:      m.PosteriorProbAlt,
	})
}

// UnmarshalJSON restores omitted fields. A missing log value means the
// probability underflowed to zero; a missing Bayes factor is recomputed from
// the restored logs.
func (m *ModelComparison) UnmarshalJSON(data []byte) error {
	var wire comparisonWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.NullTheta = wire.NullTheta
	m.LikelihoodNull = wire.LikelihoodNull
	m.MarginalLikelihood = wire.MarginalLikelihood
	m.PosteriorProbNull = wire.PosteriorProbNull
	m.PosteriorProbAlt = wire.PosteriorProbAlt
	m.LogLikelihoodNull = logOrNegInf(wire.LogLikelihoodNull)
	m.LogMarginalLikelihood = logOrNegInf(wire.LogMarginalLikelihood)
	if wire.BayesFactor != nil {
		m.BayesFactor = *wire.BayesFactor
	} else {
		m.BayesFactor = math.Exp(m.LogMarginalLikelihood - m.LogLikelihoodNull)
	}
	return nil
}

func finiteOrOmitted(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func logOrNegInf(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}

// Favors reports which model the comparison supports
func (m ModelComparison) Favors() string {
	switch {
	case m.PosteriorProbAlt > m.PosteriorProbNull:
		return "alternative"
	case m.PosteriorProbNull > m.PosteriorProbAlt:
		return "null"
	default:
		return "neither"
	}
}
