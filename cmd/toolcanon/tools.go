package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage the local tool registry",
	}
	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().String("db", "", "Path to the registry database (overrides config)")
	cmd.AddCommand(
		toolsAddCmd(),
		toolsListCmd(),
		toolsGetCmd(),
		toolsRmCmd(),
		toolsSearchCmd(),
		toolsAnnotateCmd(),
	)
	return cmd
}

func toolsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Canonicalize a tool definition and store it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, _ := cmd.Flags().GetString("input")
			forced, _ := cmd.Flags().GetString("source-format")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)

			doc, err := readDocument(input)
			if err != nil {
				return err
			}

			c := canon.NewCanonicalizer()
			var res canon.Result
			if forced != "" {
				format, err := canon.ParseSourceFormat(forced)
				if err != nil {
					return err
				}
				res = c.CanonicalizeAs(doc, format)
			} else {
				res = c.Canonicalize(doc)
			}

			printWarnings(res.Warnings)

			if res.Tool.Name == "" {
				return fmt.Errorf("tool has no name and cannot be stored")
			}

			store, err := openStore(cmd, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := store.Save(cmd.Context(), res.Tool)
			if err != nil {
				return err
			}

			fmt.Printf("stored %s (%s, id %s)\n", stored.Tool.Name, stored.Tool.SourceFormat, stored.ID)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Path to the tool definition (JSON), or - for stdin")
	cmd.Flags().String("source-format", "", "Force a source format instead of auto-detecting")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func toolsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd, cfg, newLogger(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer store.Close()

			tools, err := store.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			for _, stored := range tools {
				caps := stored.Tool.Capabilities
				fmt.Printf("%-30s %-10s action=%s domain=%s side_effects=%t\n",
					stored.Tool.Name, stored.Tool.SourceFormat,
					orDash(caps.Action), orDash(caps.Domain), caps.SideEffects)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "Maximum number of tools to list (0 = all)")
	cmd.Flags().Int("offset", 0, "Number of tools to skip")

	return cmd
}

func toolsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print one stored tool as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd, cfg, newLogger(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOutput("", stored)
		},
	}
}

func toolsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a stored tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd, cfg, newLogger(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("removed", args[0])
			return nil
		},
	}
}

func toolsSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over stored tool names and descriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd, cfg, newLogger(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer store.Close()

			tools, err := store.SearchName(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			for _, stored := range tools {
				fmt.Printf("%-30s %s\n", stored.Tool.Name, stored.Tool.Description)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of results")

	return cmd
}

func toolsAnnotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate <name>",
		Short: "Attach security metadata to a stored tool interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd, cfg, newLogger(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			sec := canon.NewToolSecurity()
			if stored.Tool.Security != nil {
				sec = *stored.Tool.Security
			}
			permissions := strings.Join(sec.RequiredPermissions, ", ")

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Data classification").
						Options(
							huh.NewOption("Public", canon.ClassificationPublic),
							huh.NewOption("Internal", canon.ClassificationInternal),
							huh.NewOption("Confidential", canon.ClassificationConfidential),
							huh.NewOption("Restricted", canon.ClassificationRestricted),
						).
						Value(&sec.DataClassification),
					huh.NewSelect[string]().
						Title("PII handling").
						Options(
							huh.NewOption("None", canon.PIINone),
							huh.NewOption("Processes PII", canon.PIIProcesses),
							huh.NewOption("Stores PII", canon.PIIStores),
							huh.NewOption("Anonymizes PII", canon.PIIAnonymizes),
						).
						Value(&sec.PIIHandling),
					huh.NewInput().
						Title("Required permissions (comma-separated)").
						Value(&permissions),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			sec.RequiredPermissions = splitPermissions(permissions)

			if _, err := store.Save(cmd.Context(), stored.Tool.WithSecurity(sec)); err != nil {
				return err
			}

			fmt.Printf("annotated %s (classification=%s, pii=%s)\n",
				args[0], sec.DataClassification, sec.PIIHandling)
			return nil
		},
	}
}

func splitPermissions(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
