package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuzvak/product-limits/internal/application/ports"
	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/domain/validation"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

const (
	SourceInput = "input"
	SourceStore = "store"
	SourceNone  = "none"
)

type RunValidationCommand struct {
	Cart          validation.Cart
	Configuration *validation.Configuration
}

type RunValidationResponse struct {
	Result              validation.Result
	ConfigurationSource string
}

type RunValidationHandler struct {
	store     ports.MetafieldStore
	log       *logger.Logger
	namespace string
	key       string
}

// NewRunValidationHandler accepts a nil store; inputs without a metafield are
// then evaluated with no configuration.
func NewRunValidationHandler(
	store ports.MetafieldStore,
	log *logger.Logger,
	namespace string,
	key string,
) *RunValidationHandler {
	return &RunValidationHandler{
		store:     store,
		log:       log,
		namespace: namespace,
		key:       key,
	}
}

func (h *RunValidationHandler) Handle(ctx context.Context, cmd RunValidationCommand) (*RunValidationResponse, error) {
	cfg, source, err := h.resolveConfiguration(ctx, cmd.Configuration)
	if err != nil {
		return nil, err
	}

	result := validation.Evaluate(cfg, cmd.Cart)

	h.log.Debug("Cart validation evaluated",
		"lines", len(cmd.Cart.Lines),
		"errors", len(result.Errors()),
		"operations", len(result.Operations),
		"configuration_source", source,
	)

	return &RunValidationResponse{
		Result:              result,
		ConfigurationSource: source,
	}, nil
}

// The stored metafield is read on every call so limit edits apply to the next cart mutation.
func (h *RunValidationHandler) resolveConfiguration(ctx context.Context, cfg *validation.Configuration) (*validation.Configuration, string, error) {
	if cfg != nil {
		return cfg, SourceInput, nil
	}

	if h.store == nil {
		return nil, SourceNone, nil
	}

	metafield, err := h.store.Get(ctx, h.namespace, h.key)
	if err != nil {
		if errors.Is(err, domainErrors.ErrMetafieldNotFound) {
			return nil, SourceNone, nil
		}

		h.log.Error("Failed to load limits metafield",
			"namespace", h.namespace,
			"key", h.key,
			"error", err,
		)
		return nil, "", fmt.Errorf("%w: %v", domainErrors.ErrConfigurationUnavailable, err)
	}

	return metafield.Configuration(), SourceStore, nil
}
