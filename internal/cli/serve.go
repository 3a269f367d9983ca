package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuzvak/product-limits/internal/infrastructure/http/server"
	"github.com/yuzvak/product-limits/internal/pkg/clock"
)

const shutdownTimeout = 30 * time.Second

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation function and limit settings over HTTP",
		Long: `Start the HTTP host. The function endpoint reads limits from the configured
store whenever the input carries no metafield.

Example:
  product-limits serve --config config.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, rootOpts)
		},
	}
}

func serve(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log := opts.logger(cmd, cfg)
	log.Info("Starting product limits service", "storage_backend", cfg.Storage.Backend)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store, closeStore, err := opts.OpenStore(ctx, cfg, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open metafield store", err)
	}
	defer closeStore()

	httpServer := server.NewServer(cfg, store, clock.NewRealClock(), log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case sig := <-sigChan:
			log.Info("Received signal, shutting down", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
	}()

	if err := httpServer.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitCommandError, "server failed", err)
	}

	<-stopped
	log.Info("Server stopped")
	return nil
}
