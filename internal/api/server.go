// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handler "github.com/newthinker/tradebot/internal/api/handler/api"
	"github.com/newthinker/tradebot/internal/api/middleware"
	"github.com/newthinker/tradebot/internal/metrics"
	"github.com/newthinker/tradebot/internal/storage/signal"
)

// Server is the read-only HTTP surface of the serve command.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string // empty disables auth on /api/v1
	MetricsPath string // empty disables the metrics endpoint
}

// StatusProvider reports whether the analysis loop is running.
type StatusProvider interface {
	Running() bool
}

// Dependencies are the components the routes read from. Metrics, Status
// and Analysis may be nil.
type Dependencies struct {
	Signals  signal.Store
	Metrics  *metrics.Registry
	Status   StatusProvider
	Analysis handler.AnalysisApp
	// BaseContext bounds cycles started through the API.
	BaseContext context.Context
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Signals == nil {
		return nil, fmt.Errorf("signal store is required")
	}

	mux := http.NewServeMux()
	s := &Server{
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)

	var h http.Handler = mux
	h = metrics.LoggingMiddleware(logger)(h)
	if deps.Metrics != nil {
		h = metrics.HTTPMiddleware(deps.Metrics)(h)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	signals := handler.NewSignalsHandler(deps.Signals)
	auth := middleware.APIKeyAuth(cfg.APIKey)

	s.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{"status": "ok"}
		if deps.Status != nil {
			status["running"] = deps.Status.Running()
		}
		handler.WriteJSON(w, status)
	})

	s.mux.Handle("GET /api/v1/signals", auth(http.HandlerFunc(signals.List)))
	s.mux.Handle("GET /api/v1/signals/{id}", auth(http.HandlerFunc(signals.GetByID)))
	s.mux.Handle("GET /api/v1/symbols/{symbol}/signal", auth(http.HandlerFunc(signals.Latest)))

	if deps.Analysis != nil {
		base := deps.BaseContext
		if base == nil {
			base = context.Background()
		}
		analysis := handler.NewAnalysisHandler(base, deps.Analysis)
		s.mux.Handle("POST /api/v1/analyze", auth(http.HandlerFunc(analysis.Trigger)))
	}

	if deps.Metrics != nil && cfg.MetricsPath != "" {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
