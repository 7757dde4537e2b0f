package main

import (
	"github.com/spf13/cobra"

	"github.com/invincible-jha/aumai-toolcanon/internal/mcpserver"
	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the canonicalization engine over MCP stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)

			store, err := registry.Open(cfg.Storage.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			return mcpserver.New(version, store, logger).ServeStdio()
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to configuration file")

	return cmd
}
