package handlers

import (
	"net/http"
	"time"

	"github.com/yuzvak/product-limits/internal/application/commands"
	"github.com/yuzvak/product-limits/internal/infrastructure/function"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/middleware"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/response"
	"github.com/yuzvak/product-limits/internal/infrastructure/monitoring"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

const maxFunctionInputBytes = 1 << 20

type FunctionHandler struct {
	runner *commands.RunValidationHandler
	log    *logger.Logger
}

func NewFunctionHandler(runner *commands.RunValidationHandler, log *logger.Logger) *FunctionHandler {
	return &FunctionHandler{
		runner: runner,
		log:    log,
	}
}

// HandleRun answers with the bare function output document, not the
// response envelope, because the checkout host consumes it directly.
func (h *FunctionHandler) HandleRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := h.log.WithRequestID(middleware.RequestIDFromContext(r.Context()))

		r.Body = http.MaxBytesReader(w, r.Body, maxFunctionInputBytes)
		inv, err := function.DecodeInput(r.Body)
		if err != nil {
			log.Warn("Function input rejected", "error", err)
			monitoring.RecordValidationFailure("invalid_input")
			response.WriteDomainError(w, err)
			return
		}

		resp, err := h.runner.Handle(r.Context(), commands.RunValidationCommand{
			Cart:          inv.Cart,
			Configuration: inv.Configuration,
		})
		if err != nil {
			log.Error("Cart validation failed", "error", err)
			monitoring.RecordValidationFailure("configuration_unavailable")
			response.WriteDomainError(w, err)
			return
		}

		errorCount := len(resp.Result.Errors())
		monitoring.RecordValidationRun(resp.ConfigurationSource, len(inv.Cart.Lines), errorCount, time.Since(start))

		if errorCount > 0 {
			log.Info("Cart exceeds product limits",
				"lines", len(inv.Cart.Lines),
				"errors", errorCount,
				"configuration_source", resp.ConfigurationSource,
			)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := function.WriteOutput(w, resp.Result, false); err != nil {
			log.Error("Failed to write function output", "error", err)
		}
	}
}
