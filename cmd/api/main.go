package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"lizardflip/adapters/stats"
	"lizardflip/app"
	"lizardflip/domain/flip"
	"lizardflip/internal"
	"lizardflip/internal/config"
	"lizardflip/internal/errors"
	"lizardflip/internal/testkit"
	"lizardflip/ports"
)

// Headless JSON API without persistence: one estimation endpoint, suitable
// for embedding the estimator behind other tooling.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := internal.NewDefaultLogger()
	dist := stats.NewDistributions()
	kit := testkit.NewTestKit()
	analyses := app.NewAnalysisService(stats.NewConjugateEstimator(dist), kit.AnalysisRepository(), logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/estimate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			PriorAlpha float64 `json:"prior_alpha"`
			PriorBeta  float64 `json:"prior_beta"`
			Trials     int     `json:"trials"`
			Successes  int     `json:"successes"`
			Compare    bool    `json:"compare"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
			return
		}

		opts := ports.DefaultEstimateOptions()
		opts.IntervalMass = cfg.Estimator.IntervalMass
		opts.NullTheta = cfg.Estimator.NullTheta
		opts.Compare = body.Compare

		analysis, err := analyses.RunCounts(req.Context(), body.PriorAlpha, body.PriorBeta,
			body.Trials, body.Successes, opts)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.GetCode(err) == errors.CodeInvalidInput {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	})

	port := cfg.Server.Port
	logger.Info("headless API listening on :%s (uniform prior default %s)", port, flip.UniformPrior().Params)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), r); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
