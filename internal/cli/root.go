package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yuzvak/product-limits/internal/application/ports"
	"github.com/yuzvak/product-limits/internal/config"
	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
	"github.com/yuzvak/product-limits/internal/pkg/logger"
)

const usageMessage = "Please invoke a named export."

// StoreOpener connects the configured metafield store. The returned func
// releases it.
type StoreOpener func(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.MetafieldStore, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	// OpenStore overrides store construction in tests.
	OpenStore StoreOpener
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{OpenStore: openStore})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product-limits",
		Short: "Per-variant quantity limits for checkout",
		Long: `Checkout validation that rejects carts holding more units of a product
variant than the merchant allows.

Invoke one of the named exports below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), usageMessage)
			return domainErrors.ErrUsage
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to JSON or YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewLimitsCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, domainErrors.ErrUsage) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.LoadConfig(o.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		cfg = loaded
	}

	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	return cfg, nil
}

func (o *RootOptions) logger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	return logger.NewLoggerWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)
}
