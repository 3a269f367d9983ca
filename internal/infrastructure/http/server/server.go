package server

import (
	"context"
	"net/http"
	"time"

	"github.com/yuzvak/product-limits/internal/application/commands"
	"github.com/yuzvak/product-limits/internal/application/ports"
	"github.com/yuzvak/product-limits/internal/config"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/handlers"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/middleware"
	"github.com/yuzvak/product-limits/internal/pkg/clock"
	"github.com/yuzvak/product-limits/internal/pkg/generator"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

type Server struct {
	server          *http.Server
	logger          *logger.Logger
	requestIDs      *generator.RequestIDGenerator
	limiters        *middleware.LimiterStore
	healthHandler   *handlers.HealthHandler
	functionHandler *handlers.FunctionHandler
	settingsHandler *handlers.SettingsHandler
}

func NewServer(cfg *config.Config, store ports.MetafieldStore, clk clock.Clock, logger *logger.Logger) *Server {
	namespace := cfg.Function.MetafieldNamespace
	key := cfg.Function.MetafieldKey

	runner := commands.NewRunValidationHandler(store, logger, namespace, key)
	limits := commands.NewLimitSettingsHandler(store, clk, logger, namespace, key)

	var limiters *middleware.LimiterStore
	if cfg.RateLimit.Enabled {
		limiters = middleware.NewLimiterStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s := &Server{
		server:          server,
		logger:          logger,
		requestIDs:      generator.NewRequestIDGenerator(),
		limiters:        limiters,
		healthHandler:   handlers.NewHealthHandler(store, cfg.Storage.Backend, clk, logger),
		functionHandler: handlers.NewFunctionHandler(runner, logger),
		settingsHandler: handlers.NewSettingsHandler(limits, logger),
	}
	server.Handler = s.setupRoutes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.limiters != nil {
		s.limiters.StartJanitor(ctx, 2*time.Minute)
	}

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
