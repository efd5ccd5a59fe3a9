// Package fsys provides the narrow filesystem capability used by dependency resolution, backed by afero.
package fsys

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the filesystem surface the resolver and walker depend on.
type FS interface {
	// Exists reports whether any entry (file or directory) exists at path.
	Exists(path string) bool
	// IsFile reports whether path names a regular file.
	IsFile(path string) bool
	// ReadFile returns the contents of the file at path.
	ReadFile(path string) ([]byte, error)
}

// Afero adapts an afero.Fs to FS and adds the listing and writing calls
// used by the scanning and extraction collaborators.
type Afero struct {
	fs afero.Fs
}

var _ FS = (*Afero)(nil)

// New wraps fs. A nil fs means the host operating system filesystem.
func New(fs afero.Fs) *Afero {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Afero{fs: fs}
}

// OS returns an FS backed by the host filesystem.
func OS() *Afero {
	return New(afero.NewOsFs())
}

// Memory returns an empty in-memory FS.
func Memory() *Afero {
	return New(afero.NewMemMapFs())
}

// Fs exposes the underlying afero filesystem.
func (a *Afero) Fs() afero.Fs {
	return a.fs
}

func (a *Afero) Exists(path string) bool {
	_, err := a.fs.Stat(path)
	return err == nil
}

func (a *Afero) IsFile(path string) bool {
	info, err := a.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (a *Afero) IsDir(path string) bool {
	info, err := a.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (a *Afero) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

// ReadDir lists the entries of dir sorted by name.
func (a *Afero) ReadDir(dir string) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, dir)
}

// WriteFile writes data to path, creating parent directories as needed.
func (a *Afero) WriteFile(path string, data []byte) error {
	if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(a.fs, path, data, 0o644)
}

// WriteFiles is a fixture helper that writes each path -> content pair.
func (a *Afero) WriteFiles(files map[string]string) error {
	for path, content := range files {
		if err := a.WriteFile(path, []byte(content)); err != nil {
			return err
		}
	}
	return nil
}
