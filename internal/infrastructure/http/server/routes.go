package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/middleware"
	"github.com/yuzvak/product-limits/internal/infrastructure/monitoring"
)

const FunctionPath = "/functions/cart-validations-generate-run"

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth())

	var run http.Handler = s.functionHandler.HandleRun()
	if s.limiters != nil {
		run = middleware.NewRateLimitMiddleware(s.limiters)(run)
	}
	mux.Handle("POST "+FunctionPath, run)

	mux.HandleFunc("GET /settings/limits", s.settingsHandler.HandleGetLimits)
	mux.HandleFunc("PUT /settings/limits", s.settingsHandler.HandleReplaceLimits)
	mux.HandleFunc("DELETE /settings/limits", s.settingsHandler.HandleResetLimits)
	mux.HandleFunc("PUT /settings/limits/{variantID...}", s.settingsHandler.HandleSetVariantLimit)
	mux.HandleFunc("DELETE /settings/limits/{variantID...}", s.settingsHandler.HandleClearVariantLimit)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = middleware.NewRequestIDMiddleware(s.requestIDs)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 5*time.Second, "Request timeout")
}
