package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/jsdeps/pkg/deps"
	"github.com/odvcencio/jsdeps/pkg/model"
)

func newDepsCmd() *cobra.Command {
	var root string
	var baseDir string
	var strict bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "deps <entry>...",
		Aliases: []string{"collect"},
		Short:   "List the local files an entry file transitively imports",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			reqs := make([]deps.Request, 0, len(args))
			for _, entry := range args {
				reqs = append(reqs, p.request(entry, baseDir))
			}
			results, err := p.collector().CollectAll(ctx, reqs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if len(results) == 1 {
					err = emitJSON(out, results[0])
				} else {
					err = emitJSON(out, results)
				}
				if err != nil {
					return err
				}
			} else {
				for i, result := range results {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printResult(out, result, len(results) > 1)
				}
			}

			if strict {
				return strictError(results)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root used for search roots and configuration")
	cmd.Flags().StringVar(&baseDir, "base", "", "directory output paths are relative to (default: entry directory)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 2 when any reached file could not be read or parsed")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	return cmd
}

func strictError(results []model.Result) error {
	count := 0
	for i := range results {
		count += len(results[i].Warnings)
	}
	if count == 0 {
		return nil
	}
	return exitCodeError{code: 2, err: fmt.Errorf("%d dependency file(s) could not be read or parsed", count)}
}
