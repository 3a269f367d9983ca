package commands

import (
	"context"
	"errors"
	"sync"

	"github.com/yuzvak/product-limits/internal/application/ports"
	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/settings"
	"github.com/yuzvak/product-limits/internal/pkg/clock"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

type SetLimitCommand struct {
	VariantID string
	Limit     int
}

type ClearLimitCommand struct {
	VariantID string
}

type ReplaceLimitsCommand struct {
	Limits map[string]int
}

type LimitSettingsHandler struct {
	// serializes read-modify-write cycles within this process
	mu        sync.Mutex
	store     ports.MetafieldStore
	clock     clock.Clock
	log       *logger.Logger
	namespace string
	key       string
}

func NewLimitSettingsHandler(
	store ports.MetafieldStore,
	clk clock.Clock,
	log *logger.Logger,
	namespace string,
	key string,
) *LimitSettingsHandler {
	return &LimitSettingsHandler{
		store:     store,
		clock:     clk,
		log:       log,
		namespace: namespace,
		key:       key,
	}
}

// GetLimits returns an empty metafield when none was saved yet.
func (h *LimitSettingsHandler) GetLimits(ctx context.Context) (*settings.Metafield, error) {
	metafield, err := h.store.Get(ctx, h.namespace, h.key)
	if err != nil {
		if errors.Is(err, domainErrors.ErrMetafieldNotFound) {
			return settings.NewMetafield(h.namespace, h.key), nil
		}
		return nil, err
	}
	return metafield, nil
}

func (h *LimitSettingsHandler) SetLimit(ctx context.Context, cmd SetLimitCommand) (*settings.Metafield, error) {
	return h.update(ctx, "set", func(m *settings.Metafield) error {
		return m.SetLimit(cmd.VariantID, cmd.Limit)
	})
}

func (h *LimitSettingsHandler) ClearLimit(ctx context.Context, cmd ClearLimitCommand) (*settings.Metafield, error) {
	return h.update(ctx, "clear", func(m *settings.Metafield) error {
		if cmd.VariantID == "" {
			return domainErrors.ErrInvalidVariantID
		}
		m.ClearLimit(cmd.VariantID)
		return nil
	})
}

func (h *LimitSettingsHandler) ReplaceLimits(ctx context.Context, cmd ReplaceLimitsCommand) (*settings.Metafield, error) {
	return h.update(ctx, "replace", func(m *settings.Metafield) error {
		return m.ReplaceLimits(cmd.Limits)
	})
}

// Reset deletes the metafield, which turns limit checking off entirely.
func (h *LimitSettingsHandler) Reset(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	err := h.store.Delete(ctx, h.namespace, h.key)
	if err != nil && !errors.Is(err, domainErrors.ErrMetafieldNotFound) {
		h.log.Error("Failed to delete limits metafield", "error", err)
		return err
	}

	h.log.Info("Limits metafield reset", "namespace", h.namespace, "key", h.key)
	return nil
}

func (h *LimitSettingsHandler) update(ctx context.Context, action string, apply func(*settings.Metafield) error) (*settings.Metafield, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	metafield, err := h.GetLimits(ctx)
	if err != nil {
		h.log.Error("Failed to load limits metafield", "action", action, "error", err)
		return nil, err
	}

	if err := apply(metafield); err != nil {
		h.log.Warn("Limit update rejected", "action", action, "error", err)
		return nil, err
	}

	metafield.UpdatedAt = h.clock.Now()
	if err := h.store.Save(ctx, metafield); err != nil {
		h.log.Error("Failed to save limits metafield", "action", action, "error", err)
		return nil, err
	}

	h.log.Info("Limits metafield updated",
		"action", action,
		"variants", len(metafield.Limits),
	)
	return metafield, nil
}
