// Package main is the entry point for the toolcanon CLI.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invincible-jha/aumai-toolcanon/internal/config"
	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolcanon",
		Short:         "Canonicalize AI tool definitions across provider formats",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		versionCmd(),
		canonicalizeCmd(),
		detectCmd(),
		emitCmd(),
		toolsCmd(),
		serveCmd(),
		mcpCmd(),
		serviceCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("toolcanon %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// loadConfig loads the config named by the -c flag, falls back to standard
// locations, and finally to built-in defaults when no file exists.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		if resolved, ok := resolveConfigPath(); ok {
			cfgPath = resolved
		} else {
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/toolcanon/toolcanon.yaml → ./toolcanon.yaml
func resolveConfigPath() (string, bool) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "toolcanon", "toolcanon.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "toolcanon", "toolcanon.yaml"))
	}

	candidates = append(candidates, "toolcanon.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// openStore opens the registry at the configured path, honoring a --db
// override when the command defines one.
func openStore(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*registry.Store, error) {
	path := cfg.Storage.Path
	if cmd.Flags().Lookup("db") != nil {
		if override, _ := cmd.Flags().GetString("db"); override != "" {
			path = override
		}
	}
	return registry.Open(path, logger)
}

// readDocument decodes a JSON document from a file, or stdin when the
// path is "-".
func readDocument(path string) (any, error) {
	var doc any

	if path == "-" {
		if err := json.NewDecoder(os.Stdin).Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing stdin: %w", err)
		}
		return doc, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// writeOutput writes v as indented JSON to the named file, or stdout when
// the path is empty.
func writeOutput(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	raw = append(raw, '\n')

	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// printWarnings writes canonicalization warnings to stderr. Warnings never
// affect the exit status.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}
