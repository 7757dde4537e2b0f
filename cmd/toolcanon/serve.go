package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/invincible-jha/aumai-toolcanon/internal/gateway"
	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
	"github.com/invincible-jha/aumai-toolcanon/internal/telemetry"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway with the registry and refresh scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)
			ctx := cmd.Context()

			shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, logger)
			if err != nil {
				return err
			}

			store, err := registry.Open(cfg.Storage.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			gw := gateway.New(cfg.Server, store, logger)
			if err := gw.Start(ctx); err != nil {
				return err
			}

			var refresher *gateway.Refresher
			if cfg.Refresh.Enabled {
				refresher = gateway.NewRefresher(store, gw.Events(), logger)
				if err := refresher.Start(cfg.Refresh.Schedule); err != nil {
					return err
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			select {
			case sig := <-sigCh:
				logger.Info("signal received", "signal", sig)
			case <-ctx.Done():
			}

			if refresher != nil {
				refresher.Stop()
			}

			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			stopErr := gw.Stop(stopCtx)
			if err := shutdownTelemetry(stopCtx); err != nil {
				logger.Warn("telemetry shutdown failed", "error", err)
			}
			return stopErr
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to configuration file")

	return cmd
}
