package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/jsdeps/internal/bundle"
)

func newBundleCmd() *cobra.Command {
	var root string
	var baseDir string
	var maxBytes int
	var withPrompt bool
	var task string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "bundle <entry>",
		Aliases: []string{"pack"},
		Short:   "Concatenate an entry file and its dependencies into one text block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-bytes") {
				maxBytes = p.cfg.MaxBundleBytes
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			result, err := p.collector().Collect(ctx, p.request(args[0], baseDir))
			if err != nil {
				return err
			}
			report, err := bundle.Build(p.fs, result, bundle.Options{
				ProjectRoot: p.cfg.ProjectRoot,
				MaxBytes:    maxBytes,
				Logger:      p.logger,
			})
			if err != nil {
				return err
			}
			if report.Truncated {
				p.logger.Warn("bundle truncated", "max_bytes", maxBytes, "files", len(report.Sections), "of", result.FileCount())
			}

			text := report.Text
			if withPrompt || cmd.Flags().Changed("task") {
				if text, err = bundle.Prompt(report.Text, task); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				report.Text = text
				return emitJSON(out, report)
			}
			fmt.Fprint(out, text)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root; File: headers are relative to it")
	cmd.Flags().StringVar(&baseDir, "base", "", "directory dependency paths are relative to (default: entry directory)")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", 0, "stop adding files past this many bytes (0 = unlimited)")
	cmd.Flags().BoolVar(&withPrompt, "prompt", false, "wrap the bundle in the code analysis prompt")
	cmd.Flags().StringVar(&task, "task", "", "task line for the prompt (implies --prompt)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	return cmd
}
