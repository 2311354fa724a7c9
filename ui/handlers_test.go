package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lizardflip/adapters/stats"
	"lizardflip/app"
	"lizardflip/internal/config"
	"lizardflip/internal/testkit"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := testkit.NewInMemoryAnalysisRepository()
	estimator := stats.NewConjugateEstimator(stats.NewDistributions())
	analyses := app.NewAnalysisService(estimator, repo, nil)
	sweeps := app.NewSweepService(estimator, repo, nil)
	cfg := config.EstimatorConfig{IntervalMass: 0.95, NullTheta: 0.5, CurvePoints: 0}
	return NewServer(analyses, sweeps, nil, cfg, nil)
}

func postJSON(t *testing.T, s *Server, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateAnalysis_ExplicitNullThetaEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, nullTheta := range []float64{0, 1} {
		rec := postJSON(t, s, "/api/analyses", map[string]any{
			"prior_alpha": 1, "prior_beta": 1,
			"trials": 10, "successes": 7,
			"compare": true, "null_theta": nullTheta,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("null_theta=%g: status %d, body %s", nullTheta, rec.Code, rec.Body.String())
		}

		var resp struct {
			Comparison struct {
				NullTheta        float64 `json:"null_theta"`
				LikelihoodNull   float64 `json:"likelihood_null"`
				PosteriorProbAlt float64 `json:"posterior_prob_alt"`
			} `json:"comparison"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("null_theta=%g: %v", nullTheta, err)
		}
		if resp.Comparison.NullTheta != nullTheta {
			t.Errorf("requested null_theta %g, comparison ran against %g", nullTheta, resp.Comparison.NullTheta)
		}
		// Mixed outcomes are impossible under a degenerate null
		if resp.Comparison.LikelihoodNull != 0 {
			t.Errorf("null_theta=%g: want null likelihood 0, got %g", nullTheta, resp.Comparison.LikelihoodNull)
		}
		if resp.Comparison.PosteriorProbAlt != 1 {
			t.Errorf("null_theta=%g: want posterior prob alt 1, got %g", nullTheta, resp.Comparison.PosteriorProbAlt)
		}
	}
}

func TestHandleCreateAnalysis_NullThetaOutOfRange(t *testing.T) {
	s := newTestServer(t)

	for _, nullTheta := range []float64{-0.1, 1.5} {
		rec := postJSON(t, s, "/api/analyses", map[string]any{
			"prior_alpha": 1, "prior_beta": 1,
			"trials": 10, "successes": 7,
			"compare": true, "null_theta": nullTheta,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("null_theta=%g: want 400, got %d", nullTheta, rec.Code)
		}
	}
}

func TestHandleCreateAnalysis_NullThetaDefaultsFromConfig(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/api/analyses", map[string]any{
		"prior_alpha": 1, "prior_beta": 1,
		"trials": 10, "successes": 7,
		"compare": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Comparison struct {
			NullTheta float64 `json:"null_theta"`
		} `json:"comparison"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Comparison.NullTheta != 0.5 {
		t.Errorf("want configured default 0.5, got %g", resp.Comparison.NullTheta)
	}
}

func TestHandleSweep_NullThetaOutOfRange(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/api/sweeps", map[string]any{
		"priors": []map[string]any{{"alpha": 1, "beta": 1}},
		"trials": 10, "successes": 7,
		"compare": true, "null_theta": 2.0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("want 400, got %d", rec.Code)
	}
}
