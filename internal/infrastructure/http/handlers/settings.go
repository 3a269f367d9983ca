package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yuzvak/product-limits/internal/application/commands"
	"github.com/yuzvak/product-limits/internal/domain/settings"
	"github.com/yuzvak/product-limits/internal/infrastructure/http/response"
	"github.com/yuzvak/product-limits/internal/infrastructure/monitoring"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

type SettingsHandler struct {
	limits *commands.LimitSettingsHandler
	log    *logger.Logger
}

func NewSettingsHandler(limits *commands.LimitSettingsHandler, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		limits: limits,
		log:    log,
	}
}

type LimitsResponse struct {
	Namespace string         `json:"namespace"`
	Key       string         `json:"key"`
	Limits    map[string]int `json:"limits"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

type ReplaceLimitsRequest struct {
	Limits map[string]int `json:"limits"`
}

// A null limit clears the variant, matching an emptied field on the settings page.
type VariantLimitRequest struct {
	Limit *int `json:"limit"`
}

func newLimitsResponse(m *settings.Metafield) LimitsResponse {
	resp := LimitsResponse{
		Namespace: m.Namespace,
		Key:       m.Key,
		Limits:    m.Limits,
	}
	if !m.UpdatedAt.IsZero() {
		updatedAt := m.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func (h *SettingsHandler) HandleGetLimits(w http.ResponseWriter, r *http.Request) {
	m, err := h.limits.GetLimits(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, newLimitsResponse(m))
}

func (h *SettingsHandler) HandleReplaceLimits(w http.ResponseWriter, r *http.Request) {
	var req ReplaceLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body", err.Error())
		return
	}

	if req.Limits == nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{"limits": "limits is required"})
		return
	}

	m, err := h.limits.ReplaceLimits(r.Context(), commands.ReplaceLimitsCommand{Limits: req.Limits})
	h.record("replace", m, err)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, newLimitsResponse(m), "Limits saved")
}

func (h *SettingsHandler) HandleResetLimits(w http.ResponseWriter, r *http.Request) {
	err := h.limits.Reset(r.Context())
	h.record("reset", nil, err)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) HandleSetVariantLimit(w http.ResponseWriter, r *http.Request) {
	variantID := r.PathValue("variantID")

	var req VariantLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body", err.Error())
		return
	}

	if req.Limit == nil {
		h.clearVariantLimit(w, r, variantID)
		return
	}

	m, err := h.limits.SetLimit(r.Context(), commands.SetLimitCommand{VariantID: variantID, Limit: *req.Limit})
	h.record("set", m, err)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, newLimitsResponse(m), "Limit saved")
}

func (h *SettingsHandler) HandleClearVariantLimit(w http.ResponseWriter, r *http.Request) {
	h.clearVariantLimit(w, r, r.PathValue("variantID"))
}

func (h *SettingsHandler) clearVariantLimit(w http.ResponseWriter, r *http.Request, variantID string) {
	m, err := h.limits.ClearLimit(r.Context(), commands.ClearLimitCommand{VariantID: variantID})
	h.record("clear", m, err)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, newLimitsResponse(m), "Limit cleared")
}

func (h *SettingsHandler) record(action string, m *settings.Metafield, err error) {
	configured := 0
	if m != nil {
		configured = len(m.Limits)
	}
	monitoring.RecordLimitUpdate(action, err, configured)
}
