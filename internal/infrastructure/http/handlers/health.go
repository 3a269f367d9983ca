package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/yuzvak/product-limits/internal/application/ports"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/response"
	"github.com/yuzvak/product-limits/internal/pkg/clock"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

type HealthHandler struct {
	store     ports.MetafieldStore
	backend   string
	clock     clock.Clock
	log       *logger.Logger
	startTime time.Time
}

func NewHealthHandler(store ports.MetafieldStore, backend string, clk clock.Clock, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store:     store,
		backend:   backend,
		clock:     clk,
		log:       log,
		startTime: clk.Now(),
	}
}

type MemoryMetrics struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

type ServicesStatus struct {
	App     string `json:"app"`
	Storage string `json:"storage"`
}

type HealthData struct {
	ServicesStatus ServicesStatus `json:"services_status"`
	StorageBackend string         `json:"storage_backend"`
	Uptime         string         `json:"uptime"`
	Memory         MemoryMetrics  `json:"memory"`
	Goroutines     int            `json:"goroutines"`
}

func (h *HealthHandler) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		storageStatus := "UP"
		statusCode := http.StatusOK
		if err := h.store.Ping(ctx); err != nil {
			h.log.Warn("Storage health check failed", "backend", h.backend, "error", err)
			storageStatus = "DOWN"
			statusCode = http.StatusServiceUnavailable
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		data := HealthData{
			ServicesStatus: ServicesStatus{
				App:     "UP",
				Storage: storageStatus,
			},
			StorageBackend: h.backend,
			Uptime:         h.clock.Since(h.startTime).String(),
			Memory: MemoryMetrics{
				Alloc:      mem.Alloc,
				TotalAlloc: mem.TotalAlloc,
				Sys:        mem.Sys,
				NumGC:      mem.NumGC,
			},
			Goroutines: runtime.NumGoroutine(),
		}

		response.WriteJSON(w, statusCode, response.Success(data))
	}
}
