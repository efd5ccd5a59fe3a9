// Package resolve maps import specifiers to files on disk using extension probing, index-file fallback and search roots.
package resolve

import (
	"path/filepath"
	"strings"

	"github.com/odvcencio/jsdeps/pkg/fsys"
)

// Extensions are probed in this order after the literal path fails.
var Extensions = []string{".js", ".jsx", ".ts", ".tsx"}

// IndexName is the file looked up inside a directory-like specifier.
const IndexName = "index"

// DefaultSubdirs are the conventional project subdirectories added to every
// SearchRoots after the entry directory and the project root.
var DefaultSubdirs = []string{"src", "components", "lib"}

// SearchRoots is the ordered, de-duplicated list of base directories a
// specifier is additionally tried against. It does not change during a walk.
type SearchRoots struct {
	dirs []string
}

// NewSearchRoots builds the roots for one walk: the entry file's directory,
// the project root, then each subdir joined onto the project root.
func NewSearchRoots(entryFile, projectRoot string, subdirs []string) SearchRoots {
	var roots SearchRoots
	if strings.TrimSpace(entryFile) != "" {
		roots.add(filepath.Dir(entryFile))
	}
	if strings.TrimSpace(projectRoot) != "" {
		roots.add(projectRoot)
		for _, sub := range subdirs {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			roots.add(filepath.Join(projectRoot, sub))
		}
	}
	return roots
}

func (r *SearchRoots) add(dir string) {
	dir = filepath.Clean(dir)
	for _, existing := range r.dirs {
		if existing == dir {
			return
		}
	}
	r.dirs = append(r.dirs, dir)
}

// Dirs returns a copy of the roots in priority order.
func (r SearchRoots) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Resolver turns specifiers into absolute file paths. It keeps no state
// between calls beyond its configuration.
type Resolver struct {
	fs    fsys.FS
	roots SearchRoots
}

func New(filesystem fsys.FS, roots SearchRoots) *Resolver {
	return &Resolver{fs: filesystem, roots: roots}
}

// Roots returns the search roots the resolver was built with.
func (r *Resolver) Roots() SearchRoots {
	return r.roots
}

// Resolve returns the file spec refers to when imported from a file in
// importingDir. The boolean is false when nothing matched, which callers
// treat as an external package rather than an error.
func (r *Resolver) Resolve(spec, importingDir string) (string, bool) {
	for _, candidate := range r.Candidates(spec, importingDir) {
		if path, ok := r.probe(candidate); ok {
			return path, true
		}
	}
	return "", false
}

// Candidates lists the base paths tried for spec, in priority order.
func (r *Resolver) Candidates(spec, importingDir string) []string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	native := filepath.FromSlash(spec)
	switch {
	case IsRelative(spec):
		add(filepath.Join(importingDir, native))
	case filepath.IsAbs(native):
		add(native)
	}
	for _, root := range r.roots.dirs {
		add(filepath.Join(root, native))
	}
	return out
}

// probe applies the literal, extension and index checks to one candidate.
func (r *Resolver) probe(candidate string) (string, bool) {
	if r.fs.IsFile(candidate) {
		return candidate, true
	}
	for _, ext := range Extensions {
		if path := candidate + ext; r.fs.IsFile(path) {
			return path, true
		}
	}
	for _, ext := range Extensions {
		if path := filepath.Join(candidate, IndexName+ext); r.fs.IsFile(path) {
			return path, true
		}
	}
	return "", false
}

// IsRelative reports whether spec starts with a relative-path marker.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}
