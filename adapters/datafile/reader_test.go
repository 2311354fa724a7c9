package datafile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"lizardflip/domain/flip"
	"lizardflip/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trials.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTrials_CSVWithHeader(t *testing.T) {
	path := writeTempCSV(t, "flip_id,outcome\n1,belly-up\n2,belly-down\n3,belly-up\n4,belly-up\n")

	trials, err := NewTrialReader().ReadTrials(context.Background(), path, "outcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trials.Len() != 4 || trials.Successes() != 3 {
		t.Errorf("want 3/4 successes, got %d/%d", trials.Successes(), trials.Len())
	}
}

func TestReadTrials_CSVWithoutHeader(t *testing.T) {
	path := writeTempCSV(t, "heads\ntails\nheads\n")

	trials, err := NewTrialReader().ReadTrials(context.Background(), path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trials.Len() != 3 || trials.Successes() != 2 {
		t.Errorf("want 2/3 successes, got %d/%d", trials.Successes(), trials.Len())
	}
}

func TestReadTrials_HeaderSkippedWithoutColumnName(t *testing.T) {
	path := writeTempCSV(t, "result\n1\n0\n1\n1\n")

	trials, err := NewTrialReader().ReadTrials(context.Background(), path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trials.Len() != 4 || trials.Successes() != 3 {
		t.Errorf("header row should be skipped: got %d/%d", trials.Successes(), trials.Len())
	}
}

func TestReadTrials_UnrecognizedOutcome(t *testing.T) {
	path := writeTempCSV(t, "outcome\nheads\nsideways\n")

	_, err := NewTrialReader().ReadTrials(context.Background(), path, "outcome")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", err)
	}
}

func TestReadTrials_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "flip_id,outcome\n1,heads\n")

	_, err := NewTrialReader().ReadTrials(context.Background(), path, "result")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", err)
	}
}

func TestReadTrials_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := NewTrialReader().ReadTrials(context.Background(), path, "")
	if errors.GetCode(err) != errors.CodeReadError {
		t.Errorf("expected CodeReadError, got %v", err)
	}
}

func TestReadTrials_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewTrialReader().ReadTrials(context.Background(), path, "")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", err)
	}
}

func TestReadTrials_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	cells := [][]interface{}{
		{"flip_id", "outcome"},
		{1, "success"},
		{2, "failure"},
		{3, "success"},
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if err := wb.Close(); err != nil {
		t.Fatal(err)
	}

	trials, err := NewTrialReader().ReadTrials(context.Background(), path, "outcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trials.Len() != 3 || trials.Successes() != 2 {
		t.Errorf("want 2/3 successes, got %d/%d", trials.Successes(), trials.Len())
	}
}

func TestParseOutcome_Vocabulary(t *testing.T) {
	successes := []string{"success", "1", "true", "heads", "H", "belly-up", "BELLY_UP", " yes "}
	for _, s := range successes {
		outcome, ok := ParseOutcome(s)
		if !ok || outcome != flip.OutcomeSuccess {
			t.Errorf("%q should parse as success", s)
		}
	}
	failures := []string{"failure", "0", "false", "tails", "belly-down", "no"}
	for _, s := range failures {
		outcome, ok := ParseOutcome(s)
		if !ok || outcome != flip.OutcomeFailure {
			t.Errorf("%q should parse as failure", s)
		}
	}
	if _, ok := ParseOutcome("maybe"); ok {
		t.Error("\"maybe\" should not parse")
	}
}
