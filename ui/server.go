package ui

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lizardflip/app"
	"lizardflip/internal"
	"lizardflip/internal/config"
)

// Server exposes the posterior estimator over HTTP
type Server struct {
	router   *gin.Engine
	analyses *app.AnalysisService
	sweeps   *app.SweepService
	grid     *app.AnalysisService // same surface, grid-backed estimator
	logger   *internal.Logger
	cfg      config.EstimatorConfig
}

// NewServer creates the HTTP server around the application services.
// gridService may be nil when the numerical estimator is not wired.
func NewServer(analyses *app.AnalysisService, sweeps *app.SweepService, gridService *app.AnalysisService, cfg config.EstimatorConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:   gin.New(),
		analyses: analyses,
		sweeps:   sweeps,
		grid:     gridService,
		logger:   logger,
		cfg:      cfg,
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/api/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/analyses", s.handleCreateAnalysis)
		api.GET("/analyses", s.handleListAnalyses)
		api.GET("/analyses/:id", s.handleGetAnalysis)
		api.GET("/analyses/:id/report", s.handleAnalysisReport)
		api.DELETE("/analyses/:id", s.handleDeleteAnalysis)
		api.POST("/sweeps", s.handleSweep)
	}
}

// Start runs the server on the given port until the listener fails
func (s *Server) Start(port string) error {
	addr := fmt.Sprintf(":%s", port)
	s.logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
