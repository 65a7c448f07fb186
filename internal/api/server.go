// Package api exposes the reconciliation engine over HTTP. The service is
// stateless: every request carries its own records and receives the full
// classification in the response.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eshaffer321/finops-recon/internal/api/dto"
	"github.com/eshaffer321/finops-recon/internal/domain/recon"
	"github.com/eshaffer321/finops-recon/internal/infrastructure/config"
	"github.com/eshaffer321/finops-recon/internal/loader"
)

// Server wires the HTTP routes to the reconciliation engine.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer builds the gin router with the standard middleware stack.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/reconcile", s.handleReconcile)
	}

	return s
}

// Handler returns the root http.Handler, used by both ListenAndServe and
// the tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP listener on the configured address and blocks until
// the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.router,
	}
	s.logger.Info("starting reconciliation API", "addr", s.cfg.Server.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	engineCfg, err := req.EngineConfig(s.cfg.EngineConfig())
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.InvalidInputError(err.Error()))
		return
	}

	orders, shipments, invoices, postings, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.InvalidInputError(err.Error()))
		return
	}

	issues := loader.Validate(orders, invoices)

	engine := recon.NewEngine(engineCfg)
	matches, summary, err := engine.Reconcile(orders, shipments, invoices, postings)
	if err != nil {
		var integrity *recon.IntegrityError
		if errors.As(err, &integrity) {
			c.JSON(http.StatusUnprocessableEntity, dto.DataIntegrityError(err.Error()))
			return
		}
		s.logger.Error("reconciliation failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError("reconciliation failed"))
		return
	}

	runID := uuid.NewString()
	s.logger.Info("reconciliation run complete",
		"run_id", runID,
		"orders", summary.TotalOrders,
		"invoices", summary.TotalInvoices,
		"matched", summary.MatchedCount,
		"exceptions", summary.ExceptionCount,
	)

	c.JSON(http.StatusOK, dto.NewReconcileResponse(runID, time.Now(), matches, summary, issues))
}
