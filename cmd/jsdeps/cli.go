package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

type commandSpec struct {
	ID      string
	Aliases []string
	Summary string
	Usage   string
	New     func() *cobra.Command
}

type cli struct {
	specs     map[string]commandSpec
	aliasToID map[string]string
	out       io.Writer
}

type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e exitCodeError) Unwrap() error {
	return e.err
}

func (e exitCodeError) ExitCode() int {
	if e.code <= 0 {
		return 1
	}
	return e.code
}

func newCLI() *cli {
	c := &cli{
		specs:     make(map[string]commandSpec),
		aliasToID: make(map[string]string),
		out:       os.Stdout,
	}

	commands := []commandSpec{
		{
			ID:      "deps",
			Aliases: []string{"collect"},
			Summary: "List the local files an entry file transitively imports",
			Usage:   "deps <entry>... [--root .] [--base dir] [--strict] [--json]",
			New:     newDepsCmd,
		},
		{
			ID:      "files",
			Aliases: []string{"ls"},
			Summary: "List every JavaScript and TypeScript source file under a root",
			Usage:   "files [root] [--language javascript|typescript] [--json]",
			New:     newFilesCmd,
		},
		{
			ID:      "bundle",
			Aliases: []string{"pack"},
			Summary: "Concatenate an entry file and its dependencies into one text block",
			Usage:   "bundle <entry> [--root .] [--base dir] [--max-bytes N] [--prompt] [--task text] [--json]",
			New:     newBundleCmd,
		},
		{
			ID:      "extract",
			Aliases: []string{"unpack"},
			Summary: "Write the files contained in a code model response",
			Usage:   "extract [response-file] [--root .] [--out dir] [--dry-run] [--json]",
			New:     newExtractCmd,
		},
		{
			ID:      "watch",
			Summary: "Re-collect dependencies whenever files under the project root change",
			Usage:   "watch <entry> [--root .] [--base dir] [--debounce 250ms]",
			New:     newWatchCmd,
		},
	}

	for _, spec := range commands {
		c.specs[spec.ID] = spec
		c.aliasToID[spec.ID] = spec.ID
		for _, alias := range spec.Aliases {
			c.aliasToID[strings.ToLower(alias)] = spec.ID
		}
	}
	return c
}

func (c *cli) Run(args []string) error {
	if len(args) == 0 {
		c.printHelp()
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	switch name {
	case "-h", "--help":
		c.printHelp()
		return nil
	case "-v", "--version", "version":
		fmt.Fprintf(c.out, "jsdeps v%s\n", version)
		return nil
	case "help":
		if len(args) == 1 {
			c.printHelp()
			return nil
		}
		id, ok := c.aliasToID[strings.ToLower(strings.TrimSpace(args[1]))]
		if !ok {
			return fmt.Errorf("unknown command %q", args[1])
		}
		c.printCommandHelp(id)
		return nil
	}

	commandID, ok := c.aliasToID[name]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	if len(args) > 1 {
		firstArg := strings.TrimSpace(args[1])
		if firstArg == "-h" || firstArg == "--help" {
			c.printCommandHelp(commandID)
			return nil
		}
	}
	return c.execute(c.specs[commandID].New(), args[1:])
}

func (c *cli) execute(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(c.out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func (c *cli) printHelp() {
	ids := make([]string, 0, len(c.specs))
	for id := range c.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(c.out, "jsdeps v%s\n\n", version)
	fmt.Fprintln(c.out, "Usage:")
	fmt.Fprintln(c.out, "  jsdeps <command> [options]")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Commands:")
	for _, id := range ids {
		spec := c.specs[id]
		fmt.Fprintf(c.out, "  %-8s %s\n", spec.ID, spec.Summary)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Examples:")
	fmt.Fprintln(c.out, "  jsdeps deps src/index.js")
	fmt.Fprintln(c.out, "  jsdeps deps src/pages/home.tsx src/pages/about.tsx --root . --json")
	fmt.Fprintln(c.out, "  jsdeps files . --language typescript")
	fmt.Fprintln(c.out, "  jsdeps bundle src/App.tsx --prompt --task 'Add error handling'")
	fmt.Fprintln(c.out, "  jsdeps extract response.md --out generated")
	fmt.Fprintln(c.out, "  jsdeps watch src/index.js --debounce 500ms")
	fmt.Fprintln(c.out, "  jsdeps help bundle")
}

func (c *cli) printCommandHelp(id string) {
	spec, ok := c.specs[id]
	if !ok {
		return
	}

	fmt.Fprintf(c.out, "%s\n\n", spec.ID)
	fmt.Fprintf(c.out, "Summary: %s\n", spec.Summary)
	fmt.Fprintf(c.out, "Usage:   jsdeps %s\n", spec.Usage)
	if len(spec.Aliases) > 0 {
		fmt.Fprintf(c.out, "Aliases: %s\n", strings.Join(spec.Aliases, ", "))
	}
}
