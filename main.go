package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"lizardflip/adapters/datafile"
	"lizardflip/adapters/postgres"
	"lizardflip/adapters/stats"
	"lizardflip/app"
	"lizardflip/domain/flip"
	"lizardflip/internal"
	"lizardflip/internal/config"
	"lizardflip/internal/migration"
	"lizardflip/internal/testkit"
	"lizardflip/ports"
	"lizardflip/ui"
)

func main() {
	// .env is optional; environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := internal.NewDefaultLogger()
	gin.SetMode(cfg.Server.GinMode)

	repo, err := buildRepository(cfg, logger)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	dist := stats.NewDistributions()
	conjugate := stats.NewConjugateEstimator(dist)
	grid, err := stats.NewGridEstimator(dist, cfg.Estimator.GridPoints)
	if err != nil {
		log.Fatalf("grid estimator: %v", err)
	}

	analyses := app.NewAnalysisService(conjugate, repo, logger)
	gridAnalyses := app.NewAnalysisService(grid, repo, logger)
	sweeps := app.NewSweepService(conjugate, repo, logger)

	if cfg.Data.TrialsFile != "" {
		if err := ingestStartupFile(cfg, analyses, logger); err != nil {
			log.Fatalf("ingest %s: %v", cfg.Data.TrialsFile, err)
		}
	}

	server := ui.NewServer(analyses, sweeps, gridAnalyses, cfg.Estimator, logger)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// ingestStartupFile runs one analysis over a configured trials file so the
// results are queryable as soon as the server is up
func ingestStartupFile(cfg *config.Config, analyses *app.AnalysisService, logger *internal.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trials, err := datafile.NewTrialReader().ReadTrials(ctx, cfg.Data.TrialsFile, cfg.Data.OutcomeColumn)
	if err != nil {
		return err
	}

	opts := ports.DefaultEstimateOptions()
	opts.IntervalMass = cfg.Estimator.IntervalMass
	opts.NullTheta = cfg.Estimator.NullTheta
	opts.Compare = true
	opts.Label = cfg.Data.TrialsFile

	analysis, err := analyses.Run(ctx, flip.UniformPrior(), trials, opts)
	if err != nil {
		return err
	}
	logger.Info("ingested %s: %d trials, analysis %s", cfg.Data.TrialsFile, trials.Len(), analysis.ID)
	return nil
}

// buildRepository connects to Postgres when DATABASE_URL is set; otherwise
// the service runs with an in-memory repository
func buildRepository(cfg *config.Config, logger *internal.Logger) (ports.AnalysisRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set; running with in-memory storage")
		return testkit.NewInMemoryAnalysisRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return nil, err
	}

	logger.Info("connected to postgres, schema version %s", migration.NewRunner().Version())
	return postgres.NewAnalysisRepository(db), nil
}
