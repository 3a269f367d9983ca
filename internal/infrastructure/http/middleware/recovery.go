package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/yuzvak/product-limits/internal/infrastructure/http/response"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

func NewRecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Panic recovered",
						"error", err,
						"stack", string(debug.Stack()),
						"path", r.URL.Path,
						"method", r.Method,
						"request_id", RequestIDFromContext(r.Context()),
					)

					response.WriteError(w, http.StatusInternalServerError, response.StatusInternalError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
