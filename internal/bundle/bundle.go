// Package bundle renders a set of collected source files into one text block for code review prompts.
package bundle

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/jsdeps/pkg/fsys"
	"github.com/odvcencio/jsdeps/pkg/model"
)

// DefaultTask is used by Prompt when no task is given.
const DefaultTask = "Complete the implementation and optimize the code"

type Options struct {
	// ProjectRoot is the directory the File: headers are relative to.
	ProjectRoot string
	// MaxBytes stops adding files once the text would exceed it. Zero means no limit.
	MaxBytes int
	Logger   *log.Logger
}

type Section struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

type Report struct {
	ProjectRoot     string          `json:"project_root"`
	Sections        []Section       `json:"sections,omitempty"`
	Skipped         []model.Warning `json:"skipped,omitempty"`
	EstimatedTokens int             `json:"estimated_tokens"`
	Truncated       bool            `json:"truncated"`
	Text            string          `json:"text"`
}

// Build reads every file in result, in order, and renders it as a
// "File: <path>" block. Unreadable files are skipped with a warning.
func Build(filesystem fsys.FS, result model.Result, opts Options) (Report, error) {
	if filesystem == nil {
		filesystem = fsys.OS()
	}
	if opts.MaxBytes < 0 {
		return Report{}, fmt.Errorf("max bytes must be >= 0, got %d", opts.MaxBytes)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	root := opts.ProjectRoot
	if strings.TrimSpace(root) == "" {
		root = result.ProjectRoot
	}
	if strings.TrimSpace(root) == "" {
		root = result.BaseDir
	}

	report := Report{ProjectRoot: root}
	var text strings.Builder
	for _, rel := range result.Files {
		abs := filepath.Join(result.BaseDir, filepath.FromSlash(rel))
		content, err := filesystem.ReadFile(abs)
		if err != nil {
			report.Skipped = append(report.Skipped, model.Warning{Path: abs, Kind: model.WarningRead, Error: err.Error()})
			opts.Logger.Warn("skipping bundle file", "path", abs, "err", err)
			continue
		}
		if len(content) == 0 {
			continue
		}

		block := renderSection(displayPath(root, abs), content)
		if opts.MaxBytes > 0 && text.Len()+len(block) > opts.MaxBytes {
			report.Truncated = true
			break
		}
		text.WriteString(block)
		report.Sections = append(report.Sections, Section{Path: rel, Bytes: len(content)})
	}

	report.Text = text.String()
	report.EstimatedTokens = estimateTokens(report.Text)
	return report, nil
}

func renderSection(path string, content []byte) string {
	return fmt.Sprintf("File: %s\n\n%s\n\n", path, content)
}

func displayPath(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func estimateTokens(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return (len(trimmed) + 3) / 4
}

var promptTemplate = template.Must(template.New("prompt").Parse(`
Analyze the following code and provide a complete, production-ready implementation that addresses any issues, implements missing features, and optimizes the code. Focus on generating high-quality, functional code with minimal explanations.

{{.Files}}

Task: {{.Task}}

Respond with full file contents, using the format:
**filename.ext**
` + "```" + `language
// code here
` + "```" + `

For multiple files, repeat this format for each file.
`))

// Prompt wraps bundled text in the analysis request sent to a code model.
func Prompt(text, task string) (string, error) {
	if strings.TrimSpace(task) == "" {
		task = DefaultTask
	}
	var out strings.Builder
	err := promptTemplate.Execute(&out, struct {
		Files string
		Task  string
	}{Files: text, Task: task})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out.String(), nil
}
