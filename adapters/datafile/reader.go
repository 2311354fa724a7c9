package datafile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/internal/errors"
)

// TrialReader reads binary trial outcomes from CSV and XLSX files. It
// implements ports.TrialReaderPort.
type TrialReader struct{}

// NewTrialReader creates a reader that handles both file types
func NewTrialReader() *TrialReader {
	return &TrialReader{}
}

// ReadTrials loads the named column and maps its values to outcomes. An
// empty column name selects the first column. A header row is skipped when
// its first cell is not a recognizable outcome.
func (r *TrialReader) ReadTrials(ctx context.Context, path, column string) (flip.TrialSequence, error) {
	if err := ctx.Err(); err != nil {
		return flip.TrialSequence{}, err
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return flip.TrialSequence{}, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)))
	}
	if err != nil {
		return flip.TrialSequence{}, errors.ReadError(path, err)
	}
	if len(rows) == 0 {
		return flip.TrialSequence{}, core.ErrEmptyTrials
	}

	col, rows, err := locateColumn(rows, column)
	if err != nil {
		return flip.TrialSequence{}, err
	}

	outcomes := make([]flip.Outcome, 0, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		outcome, ok := ParseOutcome(cell)
		if !ok {
			return flip.TrialSequence{}, errors.InvalidInput(
				fmt.Sprintf("unrecognized outcome %q at row %d", cell, i+1))
		}
		outcomes = append(outcomes, outcome)
	}
	return flip.NewTrialSequence(outcomes)
}

// ParseOutcome maps common encodings of a binary outcome. The lizard-flipping
// vocabulary (belly-up / belly-down) is accepted alongside the usual forms.
func ParseOutcome(s string) (flip.Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "1", "true", "t", "yes", "y", "heads", "h", "up", "belly-up", "belly_up":
		return flip.OutcomeSuccess, true
	case "failure", "0", "false", "f", "no", "n", "tails", "down", "belly-down", "belly_down":
		return flip.OutcomeFailure, true
	default:
		return "", false
	}
}

// locateColumn resolves the column index, consuming the header row when present
func locateColumn(rows [][]string, column string) (int, [][]string, error) {
	first := rows[0]

	if column != "" {
		for i, header := range first {
			if strings.EqualFold(strings.TrimSpace(header), column) {
				return i, rows[1:], nil
			}
		}
		return 0, nil, errors.InvalidInput(fmt.Sprintf("column %q not found", column))
	}

	// No column named: use the first column, skipping a header row if the
	// first cell does not parse as an outcome
	if len(first) > 0 {
		if _, ok := ParseOutcome(first[0]); !ok {
			return 0, rows[1:], nil
		}
	}
	return 0, rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
