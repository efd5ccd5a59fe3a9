package treesitter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/jsdeps/pkg/lang"
)

func TestParseImportsModuleAndRequireInOrder(t *testing.T) {
	const source = `import React from 'react';
import { helper } from "./utils/helper";
const fs = require('fs');
const local = require("../lib/local");
import "./styles/side-effect";

function load(name) {
	return require(name);
}
`

	got, err := New().ParseImports("src/app.js", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}

	want := []string{"react", "./utils/helper", "fs", "../lib/local", "./styles/side-effect"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsTSXComponent(t *testing.T) {
	const source = `import type { Props } from './types';
import { Button } from "./components/Button";

interface State { open: boolean }

export function Panel(props: Props): JSX.Element {
	const [state] = useState<State>({ open: false });
	return <div className="panel"><Button label={props.title} /></div>;
}
`

	got, err := New().ParseImports("src/Panel.tsx", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}

	want := []string{"./types", "./components/Button"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsTypeScriptDialect(t *testing.T) {
	const source = `import config = require("./config");
import { Service } from "./service";

const value = <number>config.port;
export class Server extends Service {}
`

	got, err := New().ParseImports("src/server.ts", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}

	want := []string{"./config", "./service"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsReexportsAndDynamicImport(t *testing.T) {
	const source = `export * from './all';
export { a, b as c } from "./named";
export const lazy = () => import('./lazy');
const dyn = (name) => import(name);
`

	got, err := New().ParseImports("index.js", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}

	want := []string{"./all", "./named", "./lazy"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsSkipsNonLiteralRequire(t *testing.T) {
	const source = "const a = require(`./template`);\nconst b = require(prefix + '/x');\nconst c = require('./kept');\n"

	got, err := New().ParseImports("a.js", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"./kept"}, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsShadowedRequireIsStillCollected(t *testing.T) {
	const source = `function require(p) { return p; }
require('./looks-like-a-module');
`

	got, err := New().ParseImports("a.js", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"./looks-like-a-module"}, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsDoesNotDeduplicate(t *testing.T) {
	const source = `import a from './a';
import { b } from './a';
`

	got, err := New().ParseImports("x.ts", []byte(source))
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"./a", "./a"}, got); diff != "" {
		t.Fatalf("specifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsSyntaxError(t *testing.T) {
	_, err := New().ParseImports("broken.js", []byte("import { from './a';\nconst = ;\n"))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !errors.Is(err, lang.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	var parseErr *lang.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *lang.ParseError, got %T", err)
	}
	if parseErr.Path != "broken.js" {
		t.Fatalf("unexpected error path %q", parseErr.Path)
	}
}

func TestParseImportsEmptySource(t *testing.T) {
	got, err := New().ParseImports("empty.ts", nil)
	if err != nil {
		t.Fatalf("ParseImports returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no specifiers, got %v", got)
	}
}

func TestSupports(t *testing.T) {
	p := New()
	for _, path := range []string{"a.js", "a.jsx", "a.ts", "a.tsx", "a.mjs", "a.cjs", "A.TSX"} {
		if !p.Supports(path) {
			t.Errorf("expected %s to be supported", path)
		}
	}
	for _, path := range []string{"a.json", "a.css", "README", "a.go"} {
		if p.Supports(path) {
			t.Errorf("expected %s to be unsupported", path)
		}
	}
}

func TestDialectFor(t *testing.T) {
	cases := map[string]dialect{
		"a.ts":   dialectTypeScript,
		"a.d.ts": dialectTypeScript,
		"a.mts":  dialectTypeScript,
		"a.tsx":  dialectTSX,
		"a.js":   dialectTSX,
		"a.jsx":  dialectTSX,
	}
	for path, want := range cases {
		if got := dialectFor(path); got != want {
			t.Errorf("dialectFor(%q) = %q, want %q", path, got, want)
		}
	}
}
