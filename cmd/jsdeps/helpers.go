package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/jsdeps/internal/config"
	"github.com/odvcencio/jsdeps/pkg/deps"
	"github.com/odvcencio/jsdeps/pkg/fsys"
	"github.com/odvcencio/jsdeps/pkg/model"
)

// project bundles the configuration and logger shared by every command.
type project struct {
	cfg    config.Config
	logger *log.Logger
	fs     *fsys.Afero
}

func loadProject(root string) (project, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	cfg, err := config.Load(root)
	if err != nil {
		return project{}, err
	}
	level, err := cfg.Level()
	if err != nil {
		return project{}, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "jsdeps",
	})
	return project{cfg: cfg, logger: logger, fs: fsys.OS()}, nil
}

func (p project) collector() *deps.Collector {
	return deps.NewCollector(p.fs, deps.Options{
		Subdirs: p.cfg.SearchRoots,
		Logger:  p.logger,
	})
}

func (p project) request(entry, baseDir string) deps.Request {
	return deps.Request{
		Entry:       entry,
		BaseDir:     baseDir,
		ProjectRoot: p.cfg.ProjectRoot,
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func emitJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func printResult(w io.Writer, result model.Result, header bool) {
	if header {
		fmt.Fprintf(w, "# %s (%d files)\n", result.Entry, result.FileCount())
	}
	for _, file := range result.Files {
		fmt.Fprintln(w, file)
	}
}
