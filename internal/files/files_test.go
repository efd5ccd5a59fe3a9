package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/jsdeps/pkg/fsys"
	"github.com/odvcencio/jsdeps/pkg/ignore"
)

func fixture(t *testing.T) *fsys.Afero {
	t.Helper()
	fs := fsys.Memory()
	err := fs.WriteFiles(map[string]string{
		"/repo/index.js":                    "",
		"/repo/src/App.tsx":                 "",
		"/repo/src/util.ts":                 "",
		"/repo/src/legacy/old.jsx":          "",
		"/repo/src/styles.css":              "",
		"/repo/README.md":                   "",
		"/repo/node_modules/react/index.js": "",
		"/repo/.cache/tmp.js":               "",
		"/repo/dist/bundle.js":              "",
	})
	if err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}
	return fs
}

func TestScanListsSourceFilesSorted(t *testing.T) {
	report, err := Scan(fixture(t), "/repo", Options{})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	want := []string{
		"dist/bundle.js",
		"index.js",
		"src/App.tsx",
		"src/legacy/old.jsx",
		"src/util.ts",
	}
	if diff := cmp.Diff(want, report.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if report.TotalFiles != len(want) {
		t.Fatalf("unexpected total %d", report.TotalFiles)
	}
}

func TestScanAppliesIgnoreMatcher(t *testing.T) {
	report, err := Scan(fixture(t), "/repo", Options{
		Ignore: ignore.ParsePatterns([]string{"dist/", "src/legacy/**"}),
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	want := []string{"index.js", "src/App.tsx", "src/util.ts"}
	if diff := cmp.Diff(want, report.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLanguageFilter(t *testing.T) {
	report, err := Scan(fixture(t), "/repo", Options{Language: "TypeScript"})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	want := []string{"src/App.tsx", "src/util.ts"}
	if diff := cmp.Diff(want, report.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, entry := range report.Entries {
		if entry.Language != "typescript" {
			t.Fatalf("unexpected language in %+v", entry)
		}
	}
}

func TestScanInvalidLanguage(t *testing.T) {
	if _, err := Scan(fixture(t), "/repo", Options{Language: "go"}); err == nil {
		t.Fatal("expected unsupported language to fail")
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(fsys.Memory(), "/missing", Options{}); err == nil {
		t.Fatal("expected missing root to fail")
	}
}

func TestScanOnDisk(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "a.js"), []byte("module.exports = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Scan(nil, root, Options{})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(report.Entries) != 1 || report.Entries[0].Path != "lib/a.js" || report.Entries[0].SizeBytes == 0 {
		t.Fatalf("unexpected entries: %+v", report.Entries)
	}
}
