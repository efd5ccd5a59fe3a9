// Package config loads project settings from .jsdeps.yaml, a .env file and JSDEPS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/jsdeps/pkg/ignore"
	"github.com/odvcencio/jsdeps/pkg/resolve"
)

const (
	// FileName is the project configuration file read from the project root.
	FileName = ".jsdeps.yaml"
	// EnvFileName is the dotenv file read from the project root.
	EnvFileName = ".env"

	defaultLogLevel  = "warn"
	defaultOutputDir = "output"
)

// Environment variables that override the file settings.
const (
	EnvSearchRoots    = "JSDEPS_SEARCH_ROOTS"
	EnvLogLevel       = "JSDEPS_LOG_LEVEL"
	EnvOutputDir      = "JSDEPS_OUTPUT_DIR"
	EnvMaxBundleBytes = "JSDEPS_MAX_BUNDLE_BYTES"
)

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// fileConfig models .jsdeps.yaml.
type fileConfig struct {
	SearchRoots    []string `yaml:"search_roots"`
	Ignore         []string `yaml:"ignore"`
	LogLevel       string   `yaml:"log_level"`
	OutputDir      string   `yaml:"output_dir"`
	MaxBundleBytes int      `yaml:"max_bundle_bytes"`
}

// Config is the resolved configuration for one project root.
type Config struct {
	ProjectRoot string
	// SearchRoots are subdirectories of ProjectRoot used to resolve bare specifiers.
	SearchRoots    []string
	Ignore         []string
	LogLevel       string
	OutputDir      string
	MaxBundleBytes int
}

// Default returns the configuration used when nothing is set.
func Default(projectRoot string) Config {
	return Config{
		ProjectRoot: projectRoot,
		SearchRoots: append([]string(nil), resolve.DefaultSubdirs...),
		LogLevel:    defaultLogLevel,
		OutputDir:   defaultOutputDir,
	}
}

// Load reads configuration for projectRoot from the host filesystem and process environment.
func Load(projectRoot string) (Config, error) {
	return LoadFS(afero.NewOsFs(), projectRoot, os.LookupEnv)
}

// LoadFS layers defaults, .jsdeps.yaml, .env and the environment, in that
// order of increasing precedence. Variables already set in the environment
// win over the same keys in .env.
func LoadFS(filesystem afero.Fs, projectRoot string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return Config{}, fmt.Errorf("resolve project root: %w", err)
	}
	cfg := Default(root)

	file, err := readFile(filesystem, filepath.Join(root, FileName))
	if err != nil {
		return Config{}, err
	}
	cfg.apply(file)

	dotenv, err := readDotenv(filesystem, filepath.Join(root, EnvFileName))
	if err != nil {
		return Config{}, err
	}
	env := func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(filesystem afero.Fs, path string) (fileConfig, error) {
	var file fileConfig
	data, err := afero.ReadFile(filesystem, path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}

func readDotenv(filesystem afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(filesystem, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) apply(file fileConfig) {
	if file.SearchRoots != nil {
		c.SearchRoots = file.SearchRoots
	}
	if len(file.Ignore) > 0 {
		c.Ignore = file.Ignore
	}
	if v := strings.TrimSpace(file.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(file.OutputDir); v != "" {
		c.OutputDir = v
	}
	if file.MaxBundleBytes != 0 {
		c.MaxBundleBytes = file.MaxBundleBytes
	}
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	if raw, ok := lookup(EnvSearchRoots); ok {
		c.SearchRoots = splitList(raw)
	}
	if raw, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(raw) != "" {
		c.LogLevel = strings.TrimSpace(raw)
	}
	if raw, ok := lookup(EnvOutputDir); ok && strings.TrimSpace(raw) != "" {
		c.OutputDir = strings.TrimSpace(raw)
	}
	if raw, ok := lookup(EnvMaxBundleBytes); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxBundleBytes, err)
		}
		c.MaxBundleBytes = n
	}
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings that cannot be corrected silently.
func (c Config) Validate() error {
	for _, dir := range c.SearchRoots {
		if filepath.IsAbs(dir) {
			return fmt.Errorf("search root %q must be relative to the project root", dir)
		}
		clean := filepath.Clean(filepath.FromSlash(dir))
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("search root %q escapes the project root", dir)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxBundleBytes < 0 {
		return fmt.Errorf("max_bundle_bytes must be >= 0, got %d", c.MaxBundleBytes)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// OutputPath returns OutputDir, joined onto ProjectRoot when relative.
func (c Config) OutputPath() string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(c.ProjectRoot, c.OutputDir)
}

// IgnoreMatcher combines the project's ignore files with the configured patterns.
func (c Config) IgnoreMatcher(filesystem afero.Fs) (*ignore.Matcher, error) {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	fromFiles, err := ignore.LoadDir(filesystem, c.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("load ignore files: %w", err)
	}
	return ignore.Merge(fromFiles, ignore.ParsePatterns(c.Ignore)), nil
}
