// Package lang defines the Parser interface for extracting module specifiers from source files.
package lang

import (
	"errors"
	"fmt"
)

// ErrSyntax marks source text that could not be parsed.
var ErrSyntax = errors.New("syntax error")

// Parser extracts statically declared import specifiers from source text.
type Parser interface {
	// ParseImports returns the specifiers in the order they appear in src.
	// path is used for dialect selection and error reporting only.
	ParseImports(path string, src []byte) ([]string, error)
}

// Supporter is implemented by parsers that only understand some file types.
// Files a Supporter rejects are treated as leaves: included, never parsed.
type Supporter interface {
	Supports(path string) bool
}

// ParseError reports a file whose text could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
