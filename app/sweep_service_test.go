package app

import (
	"context"
	"errors"
	"testing"

	"lizardflip/adapters/stats"
	"lizardflip/domain/flip"
	interrors "lizardflip/internal/errors"
	"lizardflip/internal/testkit"
	"lizardflip/ports"
)

func TestSweepService_PreservesInputOrder(t *testing.T) {
	estimator := stats.NewConjugateEstimator(stats.NewDistributions())
	svc := NewSweepService(estimator, nil, nil)
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)

	priors := []flip.Prior{
		flip.MustNewPrior(1, 1),
		flip.MustNewPrior(2, 2),
		flip.MustNewPrior(5, 1),
		flip.MustNewPrior(1, 5),
		flip.MustNewPrior(10, 10),
	}

	result, err := svc.Sweep(context.Background(), priors, trials, ports.DefaultEstimateOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Analyses) != len(priors) {
		t.Fatalf("want %d analyses, got %d", len(priors), len(result.Analyses))
	}
	if result.Trials.Trials != 10 || result.Trials.Successes != 7 {
		t.Errorf("sweep trials mismatch: %+v", result.Trials)
	}
	for i, analysis := range result.Analyses {
		if analysis == nil {
			t.Fatalf("analysis %d missing", i)
		}
		want := flip.BetaParams{
			Alpha: priors[i].Params.Alpha + 7,
			Beta:  priors[i].Params.Beta + 3,
		}
		if analysis.Posterior != want {
			t.Errorf("analysis %d: want posterior %s, got %s", i, want, analysis.Posterior)
		}
	}
}

func TestSweepService_PersistsEveryAnalysis(t *testing.T) {
	repo := testkit.NewInMemoryAnalysisRepository()
	estimator := stats.NewConjugateEstimator(stats.NewDistributions())
	svc := NewSweepService(estimator, repo, nil)
	trials, _ := flip.NewTrialSequenceFromCounts(20, 5)

	priors := []flip.Prior{flip.MustNewPrior(1, 1), flip.MustNewPrior(3, 3)}
	result, err := svc.Sweep(context.Background(), priors, trials, ports.DefaultEstimateOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Len() != 2 {
		t.Errorf("want 2 persisted analyses, got %d", repo.Len())
	}
	for _, analysis := range result.Analyses {
		if _, err := repo.Get(context.Background(), analysis.ID); err != nil {
			t.Errorf("analysis %s not persisted: %v", analysis.ID, err)
		}
	}
}

func TestSweepService_EmptyPriors(t *testing.T) {
	estimator := stats.NewConjugateEstimator(stats.NewDistributions())
	svc := NewSweepService(estimator, nil, nil)
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)

	_, err := svc.Sweep(context.Background(), nil, trials, ports.DefaultEstimateOptions())
	if interrors.GetCode(err) != interrors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", err)
	}
}

// failingEstimator errors on every call
type failingEstimator struct{}

func (f *failingEstimator) Method() flip.EstimationMethod { return flip.MethodConjugate }

func (f *failingEstimator) Estimate(ctx context.Context, prior flip.Prior, trials flip.TrialSequence, opts ports.EstimateOptions) (*flip.Analysis, error) {
	return nil, errors.New("estimation blew up")
}

func TestSweepService_PropagatesWorkerError(t *testing.T) {
	svc := NewSweepService(&failingEstimator{}, nil, nil)
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)

	priors := make([]flip.Prior, 16)
	for i := range priors {
		priors[i] = flip.MustNewPrior(float64(i+1), 1)
	}

	_, err := svc.Sweep(context.Background(), priors, trials, ports.DefaultEstimateOptions())
	if err == nil {
		t.Fatal("expected error from failing estimator")
	}
}

func TestSweepService_CanceledContext(t *testing.T) {
	estimator := stats.NewConjugateEstimator(stats.NewDistributions())
	svc := NewSweepService(estimator, nil, nil)
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	priors := make([]flip.Prior, 32)
	for i := range priors {
		priors[i] = flip.MustNewPrior(float64(i+1), 1)
	}
	if _, err := svc.Sweep(ctx, priors, trials, ports.DefaultEstimateOptions()); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
