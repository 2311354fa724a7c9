package ui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/internal/errors"
	"lizardflip/internal/report"
	"lizardflip/ports"
)

// analysisRequest is the JSON body for POST /api/analyses. Trial data comes
// either as an ordered outcome list or as aggregate counts.
type analysisRequest struct {
	PriorAlpha float64  `json:"prior_alpha"`
	PriorBeta  float64  `json:"prior_beta"`
	Outcomes   []string `json:"outcomes,omitempty"`
	Trials     int      `json:"trials,omitempty"`
	Successes  int      `json:"successes,omitempty"`

	Method       string   `json:"method,omitempty"` // "conjugate" (default) or "grid"
	Label        string   `json:"label,omitempty"`
	IntervalMass float64  `json:"interval_mass,omitempty"`
	Compare      bool     `json:"compare,omitempty"`
	NullTheta    *float64 `json:"null_theta,omitempty"` // pointer so an explicit 0 survives decoding
	CurvePoints  int      `json:"curve_points,omitempty"`
}

type sweepRequest struct {
	Priors []struct {
		Alpha float64 `json:"alpha"`
		Beta  float64 `json:"beta"`
	} `json:"priors"`
	Outcomes  []string `json:"outcomes,omitempty"`
	Trials    int      `json:"trials,omitempty"`
	Successes int      `json:"successes,omitempty"`

	IntervalMass float64  `json:"interval_mass,omitempty"`
	Compare      bool     `json:"compare,omitempty"`
	NullTheta    *float64 `json:"null_theta,omitempty"`
}

func (s *Server) handleCreateAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("malformed request body"))
		return
	}

	opts, err := s.options(req.Label, req.IntervalMass, req.Compare, req.NullTheta, req.CurvePoints)
	if err != nil {
		writeError(c, err)
		return
	}

	service := s.analyses
	if req.Method == string(flip.MethodGrid) {
		if s.grid == nil {
			writeError(c, errors.InvalidInput("grid estimator not available"))
			return
		}
		service = s.grid
	}

	var analysis *flip.Analysis
	if len(req.Outcomes) > 0 {
		outcomes := make([]flip.Outcome, len(req.Outcomes))
		for i, o := range req.Outcomes {
			outcomes[i] = flip.Outcome(o)
		}
		analysis, err = service.RunOutcomes(c.Request.Context(), req.PriorAlpha, req.PriorBeta, outcomes, opts)
	} else {
		analysis, err = service.RunCounts(c.Request.Context(), req.PriorAlpha, req.PriorBeta, req.Trials, req.Successes, opts)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, analysis)
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	analyses, err := s.analyses.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses, "count": len(analyses)})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}
	analysis, err := s.analyses.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleAnalysisReport(c *gin.Context) {
	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}
	analysis, err := s.analyses.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(analysis))
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}
	if err := s.analyses.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSweep(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("malformed request body"))
		return
	}

	priors := make([]flip.Prior, 0, len(req.Priors))
	for _, p := range req.Priors {
		prior, err := flip.NewPrior(p.Alpha, p.Beta)
		if err != nil {
			writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
			return
		}
		priors = append(priors, prior)
	}

	trials, err := trialsFromRequest(req.Outcomes, req.Trials, req.Successes)
	if err != nil {
		writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	opts, err := s.options("", req.IntervalMass, req.Compare, req.NullTheta, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.sweeps.Sweep(c.Request.Context(), priors, trials, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// options fills request options with the configured defaults. An explicit
// null_theta is honored across the full [0, 1] support, degenerate endpoints
// included; values outside it are rejected rather than silently replaced.
func (s *Server) options(label string, mass float64, compare bool, nullTheta *float64, curvePoints int) (ports.EstimateOptions, error) {
	opts := ports.DefaultEstimateOptions()
	opts.IntervalMass = s.cfg.IntervalMass
	opts.NullTheta = s.cfg.NullTheta
	opts.Label = label
	opts.Compare = compare
	if mass > 0 && mass < 1 {
		opts.IntervalMass = mass
	}
	if nullTheta != nil {
		if *nullTheta < 0 || *nullTheta > 1 {
			return opts, errors.InvalidInput("null_theta must be within [0, 1]")
		}
		opts.NullTheta = *nullTheta
	}
	if curvePoints > 0 {
		opts.CurvePoints = curvePoints
	}
	return opts, nil
}

func trialsFromRequest(outcomes []string, trials, successes int) (flip.TrialSequence, error) {
	if len(outcomes) > 0 {
		converted := make([]flip.Outcome, len(outcomes))
		for i, o := range outcomes {
			converted[i] = flip.Outcome(o)
		}
		return flip.NewTrialSequence(converted)
	}
	return flip.NewTrialSequenceFromCounts(trials, successes)
}

// writeError maps application errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if core.IsNotFoundError(err) {
		status = http.StatusNotFound
	}
	if core.IsValidationError(err) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
