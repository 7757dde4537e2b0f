package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

func canonicalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonicalize",
		Short: "Normalize a tool definition into the canonical representation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			forced, _ := cmd.Flags().GetString("source-format")

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
			fmt.Fprintln(os.Stderr, "source format:", res.SourceFormatDetected)

			return writeOutput(output, res.Tool)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Path to the tool definition (JSON), or - for stdin")
	cmd.Flags().StringP("output", "o", "", "Write the canonical tool here instead of stdout")
	cmd.Flags().String("source-format", "", "Force a source format instead of auto-detecting")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Report which provider format a tool definition matches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, _ := cmd.Flags().GetString("input")
			verbose, _ := cmd.Flags().GetBool("verbose")

			doc, err := readDocument(input)
			if err != nil {
				return err
			}

			detector := canon.NewDetector()
			fmt.Println(detector.Detect(doc))

			if verbose {
				scores := detector.Confidence(doc)
				formats := make([]canon.SourceFormat, 0, len(scores))
				for f := range scores {
					formats = append(formats, f)
				}
				sort.Slice(formats, func(i, j int) bool {
					if scores[formats[i]] != scores[formats[j]] {
						return scores[formats[i]] > scores[formats[j]]
					}
					return formats[i] < formats[j]
				})
				for _, f := range formats {
					fmt.Printf("  %-10s %.1f\n", f, scores[f])
				}
			}

			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Path to the tool definition (JSON), or - for stdin")
	cmd.Flags().BoolP("verbose", "v", false, "Print per-format confidence scores")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func emitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Convert a canonical tool into a provider format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			target, _ := cmd.Flags().GetString("target")

			raw, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("reading %s: %w", input, err)
			}

			tool, err := canon.DecodeTool(raw)
			if err != nil {
				return err
			}

			out, err := canon.Emit(tool, target)
			if err != nil {
				return err
			}

			return writeOutput(output, out)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Path to the canonical tool (JSON)")
	cmd.Flags().StringP("output", "o", "", "Write the emitted definition here instead of stdout")
	cmd.Flags().StringP("target", "t", "", "Target format: openai, anthropic, mcp, json-schema")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
