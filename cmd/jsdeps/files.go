package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/jsdeps/internal/files"
)

func newFilesCmd() *cobra.Command {
	var language string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "files [root]",
		Aliases: []string{"ls"},
		Short:   "List every JavaScript and TypeScript source file under a root",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			p, err := loadProject(target)
			if err != nil {
				return err
			}
			matcher, err := p.cfg.IgnoreMatcher(p.fs.Fs())
			if err != nil {
				return err
			}

			report, err := files.Scan(p.fs, p.cfg.ProjectRoot, files.Options{
				Language: language,
				Ignore:   matcher,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return emitJSON(out, report)
			}
			fmt.Fprintf(out, "files: root=%s total=%d\n", report.Root, report.TotalFiles)
			for _, entry := range report.Entries {
				fmt.Fprintf(out, "%s language=%s bytes=%d\n", entry.Path, entry.Language, entry.SizeBytes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "filter by language (javascript or typescript)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	return cmd
}
