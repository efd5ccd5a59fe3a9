package deps

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/odvcencio/jsdeps/pkg/lang"
	"github.com/odvcencio/jsdeps/pkg/model"
	"github.com/odvcencio/jsdeps/pkg/resolve"
)

// pendingImport is a specifier waiting on the stack, with the directory of
// the file that declared it.
type pendingImport struct {
	spec     string
	fromFile string
	fromDir  string
}

// walk is the state of a single Collect call.
type walk struct {
	collector *Collector
	resolver  *resolve.Resolver
	baseDir   string

	// resolved absolute path -> already read (or attempted)
	visited map[string]bool
	stack   []pendingImport
	result  model.Result
}

type contextParser interface {
	ParseImportsContext(ctx context.Context, path string, src []byte) ([]string, error)
}

// run visits the entry and drains the stack. Items are resolved when popped
// and pushed in reverse, so the visit order is depth-first in source order.
func (w *walk) run(ctx context.Context, entry string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.visit(ctx, entry)
	for len(w.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if skipSpecifier(item.spec) {
			continue
		}
		path, ok := w.resolver.Resolve(item.spec, item.fromDir)
		if !ok {
			w.result.Unresolved = append(w.result.Unresolved, model.Unresolved{
				From:      w.relative(item.fromFile),
				Specifier: item.spec,
			})
			w.collector.logger.Debug("unresolved specifier", "from", item.fromFile, "specifier", item.spec)
			continue
		}
		if w.visited[path] {
			continue
		}
		w.visit(ctx, path)
	}
	return ctx.Err()
}

func (w *walk) visit(ctx context.Context, path string) {
	w.visited[path] = true

	src, err := w.collector.fs.ReadFile(path)
	if err != nil {
		w.warn(path, model.WarningRead, err)
		return
	}
	w.result.Files = append(w.result.Files, w.relative(path))

	if supporter, ok := w.collector.parser.(lang.Supporter); ok && !supporter.Supports(path) {
		return
	}
	specs, err := w.parse(ctx, path, src)
	if err != nil {
		w.warn(path, model.WarningParse, err)
		return
	}

	dir := filepath.Dir(path)
	for i := len(specs) - 1; i >= 0; i-- {
		w.stack = append(w.stack, pendingImport{spec: specs[i], fromFile: path, fromDir: dir})
	}
}

func (w *walk) parse(ctx context.Context, path string, src []byte) ([]string, error) {
	if p, ok := w.collector.parser.(contextParser); ok {
		return p.ParseImportsContext(ctx, path, src)
	}
	return w.collector.parser.ParseImports(path, src)
}

func (w *walk) warn(path, kind string, err error) {
	w.result.Warnings = append(w.result.Warnings, model.Warning{
		Path:  path,
		Kind:  kind,
		Error: err.Error(),
	})
	w.collector.logger.Warn("skipping dependency", "kind", kind, "path", path, "err", err)
}

func (w *walk) relative(path string) string {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// skipSpecifier drops specifiers that can never name a local file:
// empty strings and URL-style specifiers such as "node:fs" or "https://...".
func skipSpecifier(spec string) bool {
	spec = strings.TrimSpace(spec)
	return spec == "" || hasScheme(spec)
}

func hasScheme(spec string) bool {
	colon := strings.Index(spec, ":")
	// a single letter before the colon is a Windows drive, not a scheme
	if colon < 2 {
		return false
	}
	for i, r := range spec[:colon] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
