package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuzvak/product-limits/internal/application/commands"
	"github.com/yuzvak/product-limits/internal/domain/settings"
	"github.com/yuzvak/product-limits/internal/pkg/clock"
)

type limitsView struct {
	Namespace string         `json:"namespace"`
	Key       string         `json:"key"`
	Limits    map[string]int `json:"limits"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

func NewLimitsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Inspect and edit stored variant limits",
		Long: `Edit the limits metafield read by the served function.

Example:
  product-limits limits set gid://shopify/ProductVariant/1 3 --config config.yaml
  product-limits limits clear gid://shopify/ProductVariant/1 --config config.yaml`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newLimitsGetCommand(rootOpts))
	cmd.AddCommand(newLimitsSetCommand(rootOpts))
	cmd.AddCommand(newLimitsClearCommand(rootOpts))

	return cmd
}

func newLimitsGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get",
		Short:         "Print the stored limits",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLimitSettings(cmd, opts, func(h *commands.LimitSettingsHandler) (*settings.Metafield, error) {
				return h.GetLimits(cmd.Context())
			})
		},
	}
}

func newLimitsSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <variant-id> <limit>",
		Short:         "Set the maximum quantity for one variant",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitFailure, "limit must be an integer", err)
			}

			return withLimitSettings(cmd, opts, func(h *commands.LimitSettingsHandler) (*settings.Metafield, error) {
				return h.SetLimit(cmd.Context(), commands.SetLimitCommand{VariantID: args[0], Limit: limit})
			})
		},
	}
}

func newLimitsClearCommand(opts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:           "clear [variant-id]",
		Short:         "Remove the limit for one variant, or every limit with --all",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return WrapExitError(ExitFailure, "pass either a variant id or --all", nil)
			}

			return withLimitSettings(cmd, opts, func(h *commands.LimitSettingsHandler) (*settings.Metafield, error) {
				if all {
					if err := h.Reset(cmd.Context()); err != nil {
						return nil, err
					}
					return h.GetLimits(cmd.Context())
				}
				return h.ClearLimit(cmd.Context(), commands.ClearLimitCommand{VariantID: args[0]})
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete the whole limits metafield")

	return cmd
}

func withLimitSettings(cmd *cobra.Command, opts *RootOptions, action func(*commands.LimitSettingsHandler) (*settings.Metafield, error)) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log := opts.logger(cmd, cfg)

	store, closeStore, err := opts.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open metafield store", err)
	}
	defer closeStore()

	handler := commands.NewLimitSettingsHandler(store, clock.NewRealClock(), log,
		cfg.Function.MetafieldNamespace, cfg.Function.MetafieldKey)

	metafield, err := action(handler)
	if err != nil {
		return WrapExitError(ExitFailure, "limits update failed", err)
	}

	return printLimits(cmd, metafield)
}

func printLimits(cmd *cobra.Command, m *settings.Metafield) error {
	view := limitsView{
		Namespace: m.Namespace,
		Key:       m.Key,
		Limits:    m.Limits,
	}
	if !m.UpdatedAt.IsZero() {
		updatedAt := m.UpdatedAt
		view.UpdatedAt = &updatedAt
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(view); err != nil {
		return fmt.Errorf("write limits: %w", err)
	}
	return nil
}
