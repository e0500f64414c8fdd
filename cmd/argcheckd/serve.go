package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/argcheck/internal/config"
	"github.com/steveyegge/argcheck/internal/verify/dispatch"
	transporthttp "github.com/steveyegge/argcheck/internal/verify/transport/http"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the argcheckd HTTP server",
	Long: `Start the HTTP transport bound to a configurable address, worker pool
size, and default timeout, resolvable from a YAML config file (--config),
environment variables (ARGCHECKD_ADDR, ARGCHECKD_MAX_CONCURRENCY,
ARGCHECKD_TIMEOUT), or their built-in defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		svc := dispatch.NewService(reg(), logger,
			dispatch.WithMaxConcurrency(cfg.MaxConcurrency),
			dispatch.WithTimeout(cfg.Timeout),
		)
		srv := transporthttp.NewServer(svc, logger)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(cfg.Addr) }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-stop:
			logger.Info("shutdown signal received")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to a YAML config file")
}
