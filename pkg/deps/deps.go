// Package deps collects the transitive closure of local module dependencies reachable from an entry file.
package deps

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/jsdeps/pkg/fsys"
	"github.com/odvcencio/jsdeps/pkg/lang"
	"github.com/odvcencio/jsdeps/pkg/lang/treesitter"
	"github.com/odvcencio/jsdeps/pkg/model"
	"github.com/odvcencio/jsdeps/pkg/resolve"
)

// ErrInvalidEntry is returned when the entry file is missing or not a regular file.
var ErrInvalidEntry = errors.New("invalid entry file")

// InvalidEntryError describes why an entry file was rejected.
type InvalidEntryError struct {
	Path   string
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("%v %s: %s", ErrInvalidEntry, e.Path, e.Reason)
}

func (e *InvalidEntryError) Unwrap() error {
	return ErrInvalidEntry
}

type Options struct {
	// Parser extracts specifiers. Defaults to the tree-sitter parser.
	Parser lang.Parser
	// Subdirs are the conventional project subdirectories used as search
	// roots. nil means resolve.DefaultSubdirs; an empty slice means none.
	Subdirs []string
	// Logger receives warnings for dropped nodes. Defaults to log.Default().
	Logger *log.Logger
}

// Request names one walk: the entry file, the directory output paths are
// relative to, and the project root used for search roots.
type Request struct {
	Entry       string
	BaseDir     string
	ProjectRoot string
}

// Collector runs dependency walks. It holds only configuration; every
// Collect call owns its own visited set, so calls may run concurrently.
type Collector struct {
	fs      fsys.FS
	parser  lang.Parser
	subdirs []string
	logger  *log.Logger
}

func NewCollector(filesystem fsys.FS, opts Options) *Collector {
	if filesystem == nil {
		filesystem = fsys.OS()
	}
	if opts.Parser == nil {
		opts.Parser = treesitter.New()
	}
	if opts.Subdirs == nil {
		opts.Subdirs = resolve.DefaultSubdirs
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Collector{
		fs:      filesystem,
		parser:  opts.Parser,
		subdirs: append([]string(nil), opts.Subdirs...),
		logger:  opts.Logger,
	}
}

// Collect returns every file transitively reachable from req.Entry, entry
// first, in depth-first discovery order, as paths relative to req.BaseDir.
// Unreadable and unparsable files are reported as warnings, never as errors;
// only a bad entry file or a cancelled context fails the call.
func (c *Collector) Collect(ctx context.Context, req Request) (model.Result, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return model.Result{}, err
	}
	if !c.fs.IsFile(req.Entry) {
		reason := "not a regular file"
		if !c.fs.Exists(req.Entry) {
			reason = "does not exist"
		}
		return model.Result{}, &InvalidEntryError{Path: req.Entry, Reason: reason}
	}

	w := &walk{
		collector: c,
		resolver:  resolve.New(c.fs, resolve.NewSearchRoots(req.Entry, req.ProjectRoot, c.subdirs)),
		baseDir:   req.BaseDir,
		visited:   make(map[string]bool),
		result: model.Result{
			Entry:       req.Entry,
			BaseDir:     req.BaseDir,
			ProjectRoot: req.ProjectRoot,
			Files:       []string{},
		},
	}
	if err := w.run(ctx, req.Entry); err != nil {
		return model.Result{}, err
	}
	return w.result, nil
}

// CollectAll runs one independent walk per request and returns the results
// in request order. The first failing walk cancels the rest.
func (c *Collector) CollectAll(ctx context.Context, reqs []Request) ([]model.Result, error) {
	results := make([]model.Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := c.Collect(gctx, req)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func normalizeRequest(req Request) (Request, error) {
	if strings.TrimSpace(req.Entry) == "" {
		return Request{}, &InvalidEntryError{Path: req.Entry, Reason: "path is empty"}
	}
	entry, err := filepath.Abs(req.Entry)
	if err != nil {
		return Request{}, fmt.Errorf("resolve entry path: %w", err)
	}
	req.Entry = entry

	if strings.TrimSpace(req.BaseDir) == "" {
		req.BaseDir = filepath.Dir(entry)
	}
	if req.BaseDir, err = filepath.Abs(req.BaseDir); err != nil {
		return Request{}, fmt.Errorf("resolve base dir: %w", err)
	}

	if strings.TrimSpace(req.ProjectRoot) == "" {
		req.ProjectRoot = req.BaseDir
	}
	if req.ProjectRoot, err = filepath.Abs(req.ProjectRoot); err != nil {
		return Request{}, fmt.Errorf("resolve project root: %w", err)
	}
	return req, nil
}
