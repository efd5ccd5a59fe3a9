// Package files lists the JavaScript and TypeScript source files under a project root.
package files

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/jsdeps/pkg/fsys"
	"github.com/odvcencio/jsdeps/pkg/ignore"
)

// Extensions are the file extensions Scan reports.
var Extensions = []string{".js", ".jsx", ".ts", ".tsx"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
}

type Options struct {
	// Language keeps only "javascript" or "typescript" files when set.
	Language string
	// Ignore filters paths relative to the root.
	Ignore *ignore.Matcher
}

type Entry struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type Report struct {
	Root       string  `json:"root"`
	TotalFiles int     `json:"total_files"`
	Entries    []Entry `json:"entries,omitempty"`
}

// Paths returns the entry paths in report order.
func (r Report) Paths() []string {
	out := make([]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		out = append(out, entry.Path)
	}
	return out
}

// Scan walks root with an explicit directory worklist and returns every
// source file, sorted by slash-separated path relative to root.
func Scan(filesystem *fsys.Afero, root string, opts Options) (Report, error) {
	if filesystem == nil {
		filesystem = fsys.OS()
	}
	languageFilter := strings.ToLower(strings.TrimSpace(opts.Language))
	switch languageFilter {
	case "", "javascript", "typescript":
	default:
		return Report{}, fmt.Errorf("unsupported language %q", opts.Language)
	}

	root = filepath.Clean(root)
	if !filesystem.IsDir(root) {
		return Report{}, fmt.Errorf("scan root %s is not a directory", root)
	}

	var entries []Entry
	pending := []string{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		infos, err := filesystem.ReadDir(dir)
		if err != nil {
			return Report{}, fmt.Errorf("read dir %s: %w", dir, err)
		}
		for _, info := range infos {
			path := filepath.Join(dir, info.Name())
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return Report{}, err
			}
			rel = filepath.ToSlash(rel)

			if info.IsDir() {
				if skipDirs[info.Name()] || strings.HasPrefix(info.Name(), ".") {
					continue
				}
				if opts.Ignore.Match(rel, true) {
					continue
				}
				pending = append(pending, path)
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			language, ok := languageOf(info.Name())
			if !ok {
				continue
			}
			if languageFilter != "" && language != languageFilter {
				continue
			}
			if opts.Ignore.Match(rel, false) {
				continue
			}
			entries = append(entries, Entry{
				Path:      rel,
				Language:  language,
				SizeBytes: info.Size(),
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return Report{
		Root:       root,
		TotalFiles: len(entries),
		Entries:    entries,
	}, nil
}

func languageOf(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range Extensions {
		if ext != candidate {
			continue
		}
		if strings.HasPrefix(ext, ".ts") {
			return "typescript", true
		}
		return "javascript", true
	}
	return "", false
}
