package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lizardflip/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createAnalysesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create analyses table")
	}
	return nil
}

func (r *MigrationRunner) createAnalysesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL,
			trials INTEGER NOT NULL CHECK (trials > 0),
			successes INTEGER NOT NULL CHECK (successes >= 0),
			failures INTEGER NOT NULL CHECK (failures >= 0),
			prior JSONB NOT NULL,
			posterior JSONB NOT NULL,
			summary JSONB NOT NULL,
			comparison JSONB,
			curve JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (successes + failures = trials)
		)`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_analyses_created_at
		ON analyses (created_at DESC)`)
	return err
}
