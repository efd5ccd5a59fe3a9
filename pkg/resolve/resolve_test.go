package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/jsdeps/pkg/fsys"
)

func newFixture(t *testing.T, files map[string]string) *fsys.Afero {
	t.Helper()
	fs := fsys.Memory()
	if err := fs.WriteFiles(files); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}
	return fs
}

func newResolver(fs fsys.FS) *Resolver {
	return New(fs, NewSearchRoots("/project/src/main.ts", "/project", DefaultSubdirs))
}

func TestResolveExtensionPriority(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/src/util.ts": "",
		"/project/src/util.js": "",
	})

	got, ok := newResolver(fs).Resolve("./util", "/project/src")
	if !ok {
		t.Fatal("expected ./util to resolve")
	}
	if got != "/project/src/util.js" {
		t.Fatalf("expected .js to win, got %q", got)
	}
}

func TestResolveLiteralFileWinsOverExtension(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/src/Makefile":    "",
		"/project/src/Makefile.js": "",
	})

	got, ok := newResolver(fs).Resolve("./Makefile", "/project/src")
	if !ok || got != "/project/src/Makefile" {
		t.Fatalf("expected literal file, got %q ok=%v", got, ok)
	}
}

func TestResolveIndexFallback(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/src/widgets/index.tsx": "",
	})

	got, ok := newResolver(fs).Resolve("./widgets", "/project/src")
	if !ok {
		t.Fatal("expected ./widgets to resolve")
	}
	if got != "/project/src/widgets/index.tsx" {
		t.Fatalf("unexpected resolution %q", got)
	}
}

func TestResolveSiblingFileBeatsIndex(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/src/widgets.ts":       "",
		"/project/src/widgets/index.js": "",
	})

	got, ok := newResolver(fs).Resolve("./widgets", "/project/src")
	if !ok || got != "/project/src/widgets.ts" {
		t.Fatalf("expected widgets.ts, got %q ok=%v", got, ok)
	}
}

func TestResolveDirectoryIsNotAFile(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/src/empty/readme.md": "",
	})

	if got, ok := newResolver(fs).Resolve("./empty", "/project/src"); ok {
		t.Fatalf("directory without index must not resolve, got %q", got)
	}
}

func TestResolveParentRelative(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/lib/shared.jsx": "",
	})

	got, ok := newResolver(fs).Resolve("../lib/shared", "/project/src/pages")
	if !ok || got != "/project/lib/shared.jsx" {
		t.Fatalf("unexpected resolution %q ok=%v", got, ok)
	}
}

func TestResolveBareSpecifierViaSearchRoots(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/components/Header.tsx": "",
		"/project/src/hooks/index.ts":    "",
	})
	r := newResolver(fs)

	got, ok := r.Resolve("Header", "/project/src/pages")
	if !ok || got != "/project/components/Header.tsx" {
		t.Fatalf("expected components root match, got %q ok=%v", got, ok)
	}

	got, ok = r.Resolve("hooks", "/project/src/pages")
	if !ok || got != "/project/src/hooks/index.ts" {
		t.Fatalf("expected entry dir root match, got %q ok=%v", got, ok)
	}
}

func TestResolveExternalPackageNotFound(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/src/main.ts": "",
	})

	if got, ok := newResolver(fs).Resolve("some-external-package", "/project/src"); ok {
		t.Fatalf("expected NotFound, got %q", got)
	}
	if got, ok := newResolver(fs).Resolve("", "/project/src"); ok {
		t.Fatalf("expected empty specifier NotFound, got %q", got)
	}
}

func TestResolveRelativeFallsBackToRoots(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/project/config.js": "",
	})

	got, ok := newResolver(fs).Resolve("./config", "/project/src/deep/nested")
	if !ok || got != "/project/config.js" {
		t.Fatalf("expected project root fallback, got %q ok=%v", got, ok)
	}
}

func TestResolveAbsoluteSpecifier(t *testing.T) {
	fs := newFixture(t, map[string]string{
		"/elsewhere/tool.ts": "",
	})

	got, ok := newResolver(fs).Resolve("/elsewhere/tool", "/project/src")
	if !ok || got != "/elsewhere/tool.ts" {
		t.Fatalf("unexpected resolution %q ok=%v", got, ok)
	}
}

func TestCandidatesOrder(t *testing.T) {
	r := newResolver(fsys.Memory())

	got := r.Candidates("./a", "/project/src/pages")
	want := []string{
		"/project/src/pages/a",
		"/project/src/a",
		"/project/a",
		"/project/components/a",
		"/project/lib/a",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	got = r.Candidates("utils/a", "/project/src/pages")
	want = []string{
		"/project/src/utils/a",
		"/project/utils/a",
		"/project/components/utils/a",
		"/project/lib/utils/a",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bare candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSearchRootsDeduplicates(t *testing.T) {
	roots := NewSearchRoots("/project/main.js", "/project", []string{"src", "", "src/", "components"})
	want := []string{"/project", "/project/src", "/project/components"}
	if diff := cmp.Diff(want, roots.Dirs()); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}
}

func TestIsRelative(t *testing.T) {
	for spec, want := range map[string]bool{
		".":          true,
		"..":         true,
		"./a":        true,
		"../a":       true,
		".hidden":    false,
		"react":      false,
		"@scope/pkg": false,
		"/abs":       false,
	} {
		if got := IsRelative(spec); got != want {
			t.Errorf("IsRelative(%q) = %v, want %v", spec, got, want)
		}
	}
}
