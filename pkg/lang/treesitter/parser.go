// Package treesitter implements the lang.Parser interface using tree-sitter's JavaScript/TypeScript grammars.
package treesitter

import (
	"context"
	"fmt"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/odvcencio/jsdeps/pkg/lang"
)

// Parser extracts import and require specifiers from JS/TS/JSX/TSX sources.
// It holds no tree-sitter state; every call builds its own parser, so a
// single Parser is safe for concurrent use.
type Parser struct{}

var (
	_ lang.Parser    = (*Parser)(nil)
	_ lang.Supporter = (*Parser)(nil)
)

func New() *Parser {
	return &Parser{}
}

// Supports reports whether path has a JavaScript or TypeScript extension.
func (p *Parser) Supports(path string) bool {
	return isSourceExtension(filepath.Ext(path))
}

func (p *Parser) ParseImports(path string, src []byte) ([]string, error) {
	return p.ParseImportsContext(context.Background(), path, src)
}

// ParseImportsContext is ParseImports with cancellation.
func (p *Parser) ParseImportsContext(ctx context.Context, path string, src []byte) ([]string, error) {
	if len(src) == 0 {
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(dialectFor(path).language())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &lang.ParseError{Path: path, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &lang.ParseError{Path: path, Err: fmt.Errorf("%w: empty syntax tree", lang.ErrSyntax)}
	}
	if root.HasError() {
		return nil, &lang.ParseError{Path: path, Err: syntaxErrorAt(root)}
	}
	return extractSpecifiers(root, src), nil
}

// extractSpecifiers walks the tree in document order with an explicit stack.
func extractSpecifiers(root *sitter.Node, src []byte) []string {
	var specifiers []string
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		switch node.Type() {
		case nodeImportStatement:
			if spec, ok := importSource(node, src); ok {
				specifiers = append(specifiers, spec)
			}
			continue
		case nodeExportStatement:
			if spec, ok := stringField(node, "source", src); ok {
				specifiers = append(specifiers, spec)
			}
		case nodeCallExpression:
			if spec, ok := loaderArgument(node, src); ok {
				specifiers = append(specifiers, spec)
			}
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.Child(i))
		}
	}
	return specifiers
}

// importSource handles `import ... from "x"`, `import "x"` and the
// TypeScript form `import x = require("x")`.
func importSource(node *sitter.Node, src []byte) (string, bool) {
	if spec, ok := stringField(node, "source", src); ok {
		return spec, true
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() != nodeImportRequireClause {
			continue
		}
		if spec, ok := stringField(child, "source", src); ok {
			return spec, true
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			if gc := child.NamedChild(j); gc != nil && gc.Type() == nodeString {
				return stringValue(gc, src), true
			}
		}
	}
	return "", false
}

// loaderArgument returns the literal first argument of require("x") or import("x").
func loaderArgument(node *sitter.Node, src []byte) (string, bool) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return "", false
	}
	switch callee.Type() {
	case nodeIdentifier:
		if callee.Content(src) != requireCallee {
			return "", false
		}
	case nodeImport:
	default:
		return "", false
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg == nil || arg.Type() == nodeComment {
			continue
		}
		if arg.Type() != nodeString {
			return "", false
		}
		return stringValue(arg, src), true
	}
	return "", false
}

func stringField(node *sitter.Node, field string, src []byte) (string, bool) {
	child := node.ChildByFieldName(field)
	if child == nil || child.Type() != nodeString {
		return "", false
	}
	return stringValue(child, src), true
}

// stringValue returns the text between the quotes of a string literal node.
func stringValue(node *sitter.Node, src []byte) string {
	var out []byte
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeStringFragment:
			out = append(out, child.Content(src)...)
		case nodeEscapeSequence:
			out = append(out, unescape(child.Content(src))...)
		}
	}
	return string(out)
}

func unescape(seq string) string {
	if len(seq) != 2 || seq[0] != '\\' {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	default:
		return seq[1:]
	}
}

func syntaxErrorAt(root *sitter.Node) error {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if node.Type() == nodeError || node.IsMissing() {
			point := node.StartPoint()
			return fmt.Errorf("%w at line %d column %d", lang.ErrSyntax, point.Row+1, point.Column+1)
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.Child(i))
		}
	}
	return lang.ErrSyntax
}
