package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/jsdeps/internal/extract"
)

func newExtractCmd() *cobra.Command {
	var root string
	var outDir string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "extract [response-file]",
		Aliases: []string{"unpack"},
		Short:   "Write the files contained in a code model response",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}

			var response []byte
			if len(args) == 1 && args[0] != "-" {
				response, err = os.ReadFile(args[0])
			} else {
				response, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			extracted := extract.Extract(string(response))
			if outDir == "" {
				outDir = p.cfg.OutputPath()
			}

			var written []string
			if !dryRun {
				written, err = extract.Write(p.fs.Fs(), outDir, extracted)
				if err != nil {
					return err
				}
			}
			p.logger.Info("extracted files", "count", len(extracted), "out", outDir, "dry_run", dryRun)

			out := cmd.OutOrStdout()
			if jsonOutput {
				return emitJSON(out, struct {
					OutputDir string         `json:"output_dir"`
					Files     []extract.File `json:"files"`
					Written   []string       `json:"written,omitempty"`
				}{OutputDir: outDir, Files: extracted, Written: written})
			}
			for _, file := range extracted {
				fmt.Fprintf(out, "%s language=%s bytes=%d\n", file.Filename, file.Language, len(file.Content))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root used for configuration")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: output_dir from configuration)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the files without writing them")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	return cmd
}
