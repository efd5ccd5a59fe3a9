// Package ignore implements gitignore-style pattern matching for filtering file paths.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"
)

// Files are the ignore files LoadDir reads from a project root, in order.
var Files = []string{".gitignore", ".jsdepsignore"}

type pattern struct {
	raw      string
	negated  bool
	dirOnly  bool
	anchored bool
	glob     string
}

// Matcher evaluates file paths against a set of gitignore-style patterns.
type Matcher struct {
	patterns []pattern
}

// Load reads patterns from a file, one per line.
func Load(filesystem afero.Fs, name string) (*Matcher, error) {
	data, err := afero.ReadFile(filesystem, name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadDir merges every ignore file present in root. Missing files are skipped.
func LoadDir(filesystem afero.Fs, root string) (*Matcher, error) {
	m := &Matcher{}
	for _, name := range Files {
		loaded, err := Load(filesystem, filepath.Join(root, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, loaded.patterns...)
	}
	return m, nil
}

// Parse splits data into lines and builds a Matcher from them.
func Parse(data []byte) (*Matcher, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParsePatterns(lines), nil
}

// ParsePatterns builds a Matcher from raw pattern lines.
func ParsePatterns(lines []string) *Matcher {
	m := &Matcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := pattern{raw: line}
		if strings.HasPrefix(line, "!") {
			p.negated = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			p.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		if line == "" {
			continue
		}
		// a slash in the middle anchors the pattern as well
		if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
			p.anchored = true
		}

		p.glob = line
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Len reports the number of active patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Match returns true if the given path should be ignored.
// The path should be slash-separated and relative to the project root.
// isDir indicates whether the path refers to a directory.
func (m *Matcher) Match(name string, isDir bool) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	ignored := false
	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if matchPattern(p, name) {
			ignored = !p.negated
		}
	}
	return ignored
}

// matchPattern checks whether a gitignore glob matches the given path.
// Anchored patterns match the full path; the rest match any path component.
func matchPattern(p pattern, name string) bool {
	if p.anchored || strings.Contains(p.glob, "**") {
		matched, _ := doublestar.Match(p.glob, name)
		return matched
	}

	if matched, _ := doublestar.Match(p.glob, path.Base(name)); matched {
		return true
	}
	for _, part := range strings.Split(name, "/") {
		if matched, _ := doublestar.Match(p.glob, part); matched {
			return true
		}
	}
	return false
}

// Merge returns a matcher applying the patterns of each input in order.
func Merge(matchers ...*Matcher) *Matcher {
	out := &Matcher{}
	for _, m := range matchers {
		if m == nil {
			continue
		}
		out.patterns = append(out.patterns, m.patterns...)
	}
	return out
}
