package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/product-limits/internal/pkg/generator"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	gen := generator.NewRequestIDGenerator()
	var seen string
	handler := NewRequestIDMiddleware(gen)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	handler.ServeHTTP(rec, req)

	assert.True(t, gen.Valid(seen))
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddlewareKeepsValidID(t *testing.T) {
	id := "3f1e7a52-8c57-4c39-9a8f-0d2f2f4f5a10"
	var seen string
	handler := NewRequestIDMiddleware(generator.NewRequestIDGenerator())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, id, seen)
}

func TestLoggingMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(logger.NewLoggerWithWriter(&buf, "INFO"))(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/settings/limits", nil))

	assert.Contains(t, buf.String(), `"message":"HTTP Request"`)
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), `"path":"/settings/limits"`)
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := NewRecoveryMiddleware(logger.NewLoggerWithWriter(&buf, "INFO"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(buf.String(), "Panic recovered"))
}

func TestRateLimitMiddlewareRejectsBurst(t *testing.T) {
	store := NewLimiterStore(0.01, 2)
	handler := NewRateLimitMiddleware(store)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/functions/cart-validations-generate-run", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/functions/cart-validations-generate-run", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLimiterStoreSameKeySameLimiter(t *testing.T) {
	store := NewLimiterStore(10, 1)
	assert.Same(t, store.Get("k"), store.Get("k"))
	assert.NotSame(t, store.Get("k"), store.Get("other"))
}

func TestLimiterStoreCleanupRemovesIdleEntries(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewLimiterStore(10, 1, WithIdleTTL(time.Minute))
	store.now = func() time.Time { return now }

	before := store.Get("idle")
	store.Get("active")

	now = now.Add(50 * time.Second)
	store.Get("active")
	now = now.Add(20 * time.Second)
	store.Cleanup()

	assert.Equal(t, 1, store.Len())
	assert.NotSame(t, before, store.Get("idle"))
}
