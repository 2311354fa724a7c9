package app

import (
	"context"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/internal"
	"lizardflip/internal/errors"
	"lizardflip/ports"
)

// AnalysisService orchestrates a single posterior-estimation run: validate
// inputs, estimate, and optionally persist the artifact. Each run is a pure
// function of its inputs; the service holds no mutable state across calls.
type AnalysisService struct {
	estimator ports.EstimatorPort
	repo      ports.AnalysisRepository // nil disables persistence
	logger    *internal.Logger
}

// NewAnalysisService creates an analysis service. A nil repository runs the
// service without persistence.
func NewAnalysisService(estimator ports.EstimatorPort, repo ports.AnalysisRepository, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{estimator: estimator, repo: repo, logger: logger}
}

// Run estimates the posterior for the given prior and trials
func (s *AnalysisService) Run(ctx context.Context, prior flip.Prior, trials flip.TrialSequence, opts ports.EstimateOptions) (*flip.Analysis, error) {
	analysis, err := s.estimator.Estimate(ctx, prior, trials, opts)
	if err != nil {
		if core.IsValidationError(err) {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		return nil, errors.Wrap(err, "estimation failed")
	}

	s.logger.Info("analysis %s: %s + %d/%d successes -> %s (mean %.4f, %g%% CI [%.4f, %.4f])",
		analysis.ID, analysis.Prior, analysis.Trials.Successes, analysis.Trials.Trials,
		analysis.Posterior, analysis.Summary.Mean, analysis.Summary.Interval.Mass*100,
		analysis.Summary.Interval.Lower, analysis.Summary.Interval.Upper)

	if s.repo != nil {
		if err := s.repo.Save(ctx, analysis); err != nil {
			return nil, errors.Wrap(err, "failed to persist analysis")
		}
	}
	return analysis, nil
}

// RunCounts is the aggregate-count entrypoint (the "n flips, k heads" form)
func (s *AnalysisService) RunCounts(ctx context.Context, priorAlpha, priorBeta float64, trials, successes int, opts ports.EstimateOptions) (*flip.Analysis, error) {
	prior, err := flip.NewPrior(priorAlpha, priorBeta)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	seq, err := flip.NewTrialSequenceFromCounts(trials, successes)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return s.Run(ctx, prior, seq, opts)
}

// RunOutcomes is the ordered-sequence entrypoint
func (s *AnalysisService) RunOutcomes(ctx context.Context, priorAlpha, priorBeta float64, outcomes []flip.Outcome, opts ports.EstimateOptions) (*flip.Analysis, error) {
	prior, err := flip.NewPrior(priorAlpha, priorBeta)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	seq, err := flip.NewTrialSequence(outcomes)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return s.Run(ctx, prior, seq, opts)
}

// Get retrieves a persisted analysis
func (s *AnalysisService) Get(ctx context.Context, id core.AnalysisID) (*flip.Analysis, error) {
	if s.repo == nil {
		return nil, errors.NotFound("analysis")
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a persisted analysis
func (s *AnalysisService) Delete(ctx context.Context, id core.AnalysisID) error {
	if s.repo == nil {
		return errors.NotFound("analysis")
	}
	return s.repo.Delete(ctx, id)
}

// List returns the most recent persisted analyses
func (s *AnalysisService) List(ctx context.Context, limit int) ([]*flip.Analysis, error) {
	if s.repo == nil {
		return []*flip.Analysis{}, nil
	}
	return s.repo.List(ctx, limit)
}
