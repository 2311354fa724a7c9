package core

import (
	"testing"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Fatal("NewID returned empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestParseAnalysisID(t *testing.T) {
	id, err := ParseAnalysisID("abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "abc-123" {
		t.Errorf("expected abc-123, got %s", id)
	}

	if _, err := ParseAnalysisID(""); err == nil {
		t.Error("expected error for empty ID")
	}
	if _, err := ParseAnalysisID("   "); err == nil {
		t.Error("expected error for whitespace ID")
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrEmptyTrials) {
		t.Error("ErrEmptyTrials should be a validation error")
	}
	if !IsValidationError(ErrInvalidPrior) {
		t.Error("ErrInvalidPrior should be a validation error")
	}
	if IsValidationError(ErrNotFound) {
		t.Error("ErrNotFound should not be a validation error")
	}
}

func TestIsNotFoundError(t *testing.T) {
	err := NewNotFoundError("analysis", "some-id")
	if !IsNotFoundError(err) {
		t.Error("wrapped not-found error should match ErrNotFound")
	}
	if IsNotFoundError(ErrInvalidPrior) {
		t.Error("ErrInvalidPrior should not be a not-found error")
	}
}
