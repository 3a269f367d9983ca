package middleware

import (
	"context"
	"net/http"

	"github.com/yuzvak/product-limits/internal/pkg/generator"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// NewRequestIDMiddleware keeps a caller supplied UUID request id and mints one otherwise.
func NewRequestIDMiddleware(gen *generator.RequestIDGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !gen.Valid(id) {
				id = gen.Generate()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
