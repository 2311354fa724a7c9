package app

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/internal"
	"lizardflip/internal/errors"
	"lizardflip/ports"
)

// defaultSweepConcurrency bounds how many estimations run at once
const defaultSweepConcurrency = 4

// SweepResult collects the analyses of one prior sweep in input order
type SweepResult struct {
	SweepID  core.SweepID     `json:"sweep_id"`
	Trials   flip.TrialCounts `json:"trials"`
	Analyses []*flip.Analysis `json:"analyses"`
	Elapsed  time.Duration    `json:"elapsed"`
}

// SweepService runs the estimator across a set of priors against the same
// trial data, showing how the choice of prior moves the posterior. Individual
// runs stay single-threaded; the sweep bounds cross-run concurrency with a
// weighted semaphore.
type SweepService struct {
	estimator   ports.EstimatorPort
	repo        ports.AnalysisRepository // nil disables persistence
	logger      *internal.Logger
	concurrency int64
}

// NewSweepService creates a sweep service
func NewSweepService(estimator ports.EstimatorPort, repo ports.AnalysisRepository, logger *internal.Logger) *SweepService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SweepService{
		estimator:   estimator,
		repo:        repo,
		logger:      logger,
		concurrency: defaultSweepConcurrency,
	}
}

// Sweep estimates one posterior per prior. Results keep the input order
// regardless of completion order; the first error cancels the sweep.
func (s *SweepService) Sweep(ctx context.Context, priors []flip.Prior, trials flip.TrialSequence, opts ports.EstimateOptions) (*SweepResult, error) {
	if len(priors) == 0 {
		return nil, errors.InvalidInput("sweep requires at least one prior")
	}

	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(s.concurrency)
	analyses := make([]*flip.Analysis, len(priors))
	errCh := make(chan error, len(priors))

	for i, prior := range priors {
		if err := sem.Acquire(ctx, 1); err != nil {
			// A worker canceled the sweep; surface its error when available
			select {
			case workerErr := <-errCh:
				if workerErr != nil {
					return nil, workerErr
				}
			default:
			}
			return nil, errors.Wrap(err, "sweep canceled")
		}
		go func(idx int, p flip.Prior) {
			defer sem.Release(1)
			analysis, err := s.estimator.Estimate(ctx, p, trials, opts)
			if err != nil {
				errCh <- errors.Wrapf(err, "prior %s", p.Params)
				cancel()
				return
			}
			analyses[idx] = analysis
			errCh <- nil
		}(i, prior)
	}

	for range priors {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}

	result := &SweepResult{
		SweepID:  core.SweepID(core.NewID()),
		Trials:   trials.Counts(),
		Analyses: analyses,
		Elapsed:  time.Since(start),
	}

	if s.repo != nil {
		for _, analysis := range analyses {
			if err := s.repo.Save(ctx, analysis); err != nil {
				return nil, errors.Wrap(err, "failed to persist sweep analysis")
			}
		}
	}

	s.logger.Info("sweep %s: %d priors against %d trials in %s",
		result.SweepID, len(priors), trials.Len(), result.Elapsed)
	return result, nil
}
