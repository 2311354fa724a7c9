package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/internal/errors"
	"lizardflip/ports"
)

// AnalysisRepositoryImpl implements ports.AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

type analysisRow struct {
	ID         string    `db:"id"`
	Label      string    `db:"label"`
	Method     string    `db:"method"`
	Trials     int       `db:"trials"`
	Successes  int       `db:"successes"`
	Failures   int       `db:"failures"`
	Prior      []byte    `db:"prior"`
	Posterior  []byte    `db:"posterior"`
	Summary    []byte    `db:"summary"`
	Comparison []byte    `db:"comparison"`
	Curve      []byte    `db:"curve"`
	CreatedAt  time.Time `db:"created_at"`
}

// Save stores an analysis, updating on ID conflict
func (r *AnalysisRepositoryImpl) Save(ctx context.Context, analysis *flip.Analysis) error {
	priorJSON, err := json.Marshal(analysis.Prior)
	if err != nil {
		return errors.Wrap(err, "failed to marshal prior")
	}
	posteriorJSON, err := json.Marshal(analysis.Posterior)
	if err != nil {
		return errors.Wrap(err, "failed to marshal posterior")
	}
	summaryJSON, err := json.Marshal(analysis.Summary)
	if err != nil {
		return errors.Wrap(err, "failed to marshal summary")
	}

	var comparisonJSON, curveJSON []byte
	if analysis.Comparison != nil {
		comparisonJSON, err = json.Marshal(analysis.Comparison)
		if err != nil {
			return errors.Wrap(err, "failed to marshal comparison")
		}
	}
	if len(analysis.Curve) > 0 {
		curveJSON, err = json.Marshal(analysis.Curve)
		if err != nil {
			return errors.Wrap(err, "failed to marshal curve")
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, label, method, trials, successes, failures,
			prior, posterior, summary, comparison, curve, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			method = EXCLUDED.method,
			trials = EXCLUDED.trials,
			successes = EXCLUDED.successes,
			failures = EXCLUDED.failures,
			prior = EXCLUDED.prior,
			posterior = EXCLUDED.posterior,
			summary = EXCLUDED.summary,
			comparison = EXCLUDED.comparison,
			curve = EXCLUDED.curve`,
		analysis.ID.String(), analysis.Label, string(analysis.Method),
		analysis.Trials.Trials, analysis.Trials.Successes, analysis.Trials.Failures,
		priorJSON, posteriorJSON, summaryJSON, comparisonJSON, curveJSON,
		analysis.CreatedAt.Time(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to save analysis")
	}
	return nil
}

// Get retrieves an analysis by ID
func (r *AnalysisRepositoryImpl) Get(ctx context.Context, id core.AnalysisID) (*flip.Analysis, error) {
	var row analysisRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, label, method, trials, successes, failures,
		       prior, posterior, summary, comparison, curve, created_at
		FROM analyses WHERE id = $1`, id.String())
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %s", core.ErrAnalysisNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis")
	}
	return rowToAnalysis(&row)
}

// List returns the most recent analyses, newest first
func (r *AnalysisRepositoryImpl) List(ctx context.Context, limit int) ([]*flip.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []analysisRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, label, method, trials, successes, failures,
		       prior, posterior, summary, comparison, curve, created_at
		FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list analyses")
	}

	analyses := make([]*flip.Analysis, 0, len(rows))
	for i := range rows {
		analysis, convErr := rowToAnalysis(&rows[i])
		if convErr != nil {
			return nil, convErr
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

// Delete removes an analysis by ID
func (r *AnalysisRepositoryImpl) Delete(ctx context.Context, id core.AnalysisID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to delete analysis")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: id %s", core.ErrAnalysisNotFound, id)
	}
	return nil
}

func rowToAnalysis(row *analysisRow) (*flip.Analysis, error) {
	analysis := &flip.Analysis{
		ID:     core.AnalysisID(row.ID),
		Label:  row.Label,
		Method: flip.EstimationMethod(row.Method),
		Trials: flip.TrialCounts{
			Trials:    row.Trials,
			Successes: row.Successes,
			Failures:  row.Failures,
		},
		CreatedAt: core.NewTimestamp(row.CreatedAt),
	}
	if err := json.Unmarshal(row.Prior, &analysis.Prior); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal prior")
	}
	if err := json.Unmarshal(row.Posterior, &analysis.Posterior); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal posterior")
	}
	if err := json.Unmarshal(row.Summary, &analysis.Summary); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal summary")
	}
	if len(row.Comparison) > 0 {
		analysis.Comparison = &flip.ModelComparison{}
		if err := json.Unmarshal(row.Comparison, analysis.Comparison); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal comparison")
		}
	}
	if len(row.Curve) > 0 {
		if err := json.Unmarshal(row.Curve, &analysis.Curve); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal curve")
		}
	}
	return analysis, nil
}
