// Package extract pulls file contents out of a code model response and writes them to disk.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// FallbackName is used when a response has no recognizable file sections.
const FallbackName = "response.txt"

const plaintext = "plaintext"

// ErrUnsafePath is returned by Write for names that would land outside the output directory.
var ErrUnsafePath = errors.New("unsafe output path")

type File struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

var (
	sectionStart = regexp.MustCompile("\\*\\*[\\w.-]+\\*\\*\\s*```[\\w-]*")
	sectionName  = regexp.MustCompile(`\*\*([\w.-]+)\*\*`)
	sectionCode  = regexp.MustCompile("```([\\w-]*)\\n([\\s\\S]*?)```")
)

// Extract returns the files named in response. A JSON body of the form
// {"files":[...]} is used as is; otherwise every "**name**" heading followed
// by a fenced block becomes one file; otherwise the whole response becomes
// FallbackName.
func Extract(response string) []File {
	if files, ok := fromJSON(response); ok {
		return files
	}
	if files := fromSections(response); len(files) > 0 {
		return files
	}
	return []File{{
		Filename: FallbackName,
		Language: plaintext,
		Content:  strings.TrimSpace(response),
	}}
}

func fromJSON(response string) ([]File, bool) {
	var body struct {
		Files *[]File `json:"files"`
	}
	if err := json.Unmarshal([]byte(response), &body); err != nil || body.Files == nil {
		return nil, false
	}
	return *body.Files, true
}

func fromSections(response string) []File {
	starts := sectionStart.FindAllStringIndex(response, -1)
	if len(starts) == 0 {
		return nil
	}

	var files []File
	for i, loc := range starts {
		end := len(response)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		section := response[loc[0]:end]

		name := sectionName.FindStringSubmatch(section)
		code := sectionCode.FindStringSubmatch(section)
		if name == nil || code == nil {
			continue
		}
		language := code[1]
		if language == "" {
			language = plaintext
		}
		files = append(files, File{
			Filename: name[1],
			Language: language,
			Content:  strings.TrimSpace(code[2]),
		})
	}
	return files
}

// Write stores each file under dir and returns the written paths in order.
func Write(filesystem afero.Fs, dir string, files []File) ([]string, error) {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	dir = filepath.Clean(dir)
	if err := filesystem.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		target, err := safeJoin(dir, file.Filename)
		if err != nil {
			return written, err
		}
		if err := filesystem.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("create dir for %s: %w", file.Filename, err)
		}
		if err := afero.WriteFile(filesystem, target, []byte(file.Content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", file.Filename, err)
		}
		written = append(written, target)
	}
	return written, nil
}

func safeJoin(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return target, nil
}
