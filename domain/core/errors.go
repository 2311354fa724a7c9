package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)

	// Validation errors
	ErrEmptyTrials      = errors.New("trial sequence is empty")
	ErrInvalidOutcome   = errors.New("trial outcome outside {success, failure}")
	ErrInvalidPrior     = errors.New("prior hyperparameters must be strictly positive")
	ErrInvalidPosterior = errors.New("posterior hyperparameters must be strictly positive")
	ErrProbabilityRange = errors.New("probability outside [0, 1]")
	ErrCountMismatch    = errors.New("successes exceed total trials")

	// Estimation errors
	ErrEstimationFailed = errors.New("posterior estimation failed")
	ErrGridTooCoarse    = errors.New("grid resolution too coarse")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewPriorError(alpha, beta float64) error {
	return fmt.Errorf("%w: got Beta(%g, %g)", ErrInvalidPrior, alpha, beta)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTrials) ||
		errors.Is(err, ErrInvalidOutcome) ||
		errors.Is(err, ErrInvalidPrior) ||
		errors.Is(err, ErrInvalidPosterior) ||
		errors.Is(err, ErrProbabilityRange) ||
		errors.Is(err, ErrCountMismatch)
}
