package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuzvak/product-limits/internal/application/commands"
	"github.com/yuzvak/product-limits/internal/infrastructure/function"
)

type RunOptions struct {
	*RootOptions
	InputPath string
	Pretty    bool
}

// NewRunCommand evaluates a single function input. It never touches a store:
// limits come only from the input's metafield.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"cart-validations-generate-run"},
		Short:   "Validate one cart against product limits",
		Long: `Read a cart validation input document and write the resulting operations.

Example:
  product-limits run < input.json
  product-limits cart-validations-generate-run --input input.json --pretty`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputPath, "input", "i", "", "read input from file instead of stdin")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the output document")

	return cmd
}

func runValidation(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log := opts.logger(cmd, cfg)

	var in io.Reader = cmd.InOrStdin()
	if opts.InputPath != "" && opts.InputPath != "-" {
		f, err := os.Open(opts.InputPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		in = f
	}

	inv, err := function.DecodeInput(in)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to decode input", err)
	}

	handler := commands.NewRunValidationHandler(nil, log, cfg.Function.MetafieldNamespace, cfg.Function.MetafieldKey)
	resp, err := handler.Handle(cmd.Context(), commands.RunValidationCommand{
		Cart:          inv.Cart,
		Configuration: inv.Configuration,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "validation failed", err)
	}

	return function.WriteOutput(cmd.OutOrStdout(), resp.Result, opts.Pretty)
}
