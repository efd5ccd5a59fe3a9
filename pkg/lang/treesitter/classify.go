// Grammar selection and node types for the JavaScript and TypeScript grammars.

package treesitter

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Node types inspected while collecting specifiers.
const (
	nodeImportStatement     = "import_statement"
	nodeImportRequireClause = "import_require_clause"
	nodeExportStatement     = "export_statement"
	nodeCallExpression      = "call_expression"
	nodeString              = "string"
	nodeStringFragment      = "string_fragment"
	nodeEscapeSequence      = "escape_sequence"
	nodeIdentifier          = "identifier"
	nodeImport              = "import"
	nodeComment             = "comment"
	nodeError               = "ERROR"
)

// requireCallee is the identifier treated as the module loader. A local
// function that shadows it is indistinguishable from the real one.
const requireCallee = "require"

// dialect names the grammar used for one file.
type dialect string

const (
	dialectTSX        dialect = "tsx"
	dialectTypeScript dialect = "typescript"
)

// SourceExtensions are the file extensions the parser accepts.
var SourceExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts"}

var typescriptOnly = map[string]bool{
	".ts":  true,
	".mts": true,
	".cts": true,
}

// dialectFor picks the grammar from the file extension. Plain TypeScript
// files use the non-JSX grammar so angle-bracket type assertions parse;
// everything else uses TSX, which accepts JavaScript, JSX and TypeScript.
func dialectFor(path string) dialect {
	if typescriptOnly[strings.ToLower(filepath.Ext(path))] {
		return dialectTypeScript
	}
	return dialectTSX
}

func (d dialect) language() *sitter.Language {
	if d == dialectTypeScript {
		return typescript.GetLanguage()
	}
	return tsx.GetLanguage()
}

func isSourceExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, candidate := range SourceExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
