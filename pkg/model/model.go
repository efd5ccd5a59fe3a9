// Package model defines the core data types for dependency collection: Result, Warning, and Unresolved.
package model

// Warning kinds recorded when a resolved file could not be processed.
const (
	WarningRead  = "read"
	WarningParse = "parse"
)

// Warning records a file that was resolved but could not be read or parsed.
type Warning struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Unresolved records a specifier that did not resolve under any search root.
type Unresolved struct {
	From      string `json:"from"`
	Specifier string `json:"specifier"`
}

// Result is the flattened dependency closure of one entry file.
type Result struct {
	Entry       string       `json:"entry"`
	BaseDir     string       `json:"base_dir"`
	ProjectRoot string       `json:"project_root"`
	Files       []string     `json:"files"`
	Warnings    []Warning    `json:"warnings,omitempty"`
	Unresolved  []Unresolved `json:"unresolved,omitempty"`
}

// FileCount returns the number of files in the closure, entry included.
func (r *Result) FileCount() int {
	if r == nil {
		return 0
	}
	return len(r.Files)
}

// HasWarnings reports whether any reached file was dropped or left unexplored.
func (r *Result) HasWarnings() bool {
	return r != nil && len(r.Warnings) > 0
}

// WarningsOf returns the warnings of the given kind in recorded order.
func (r *Result) WarningsOf(kind string) []Warning {
	if r == nil {
		return nil
	}
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Equal reports whether two results list the same files in the same order.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.Files) != len(other.Files) {
		return false
	}
	for i := range r.Files {
		if r.Files[i] != other.Files[i] {
			return false
		}
	}
	return true
}
