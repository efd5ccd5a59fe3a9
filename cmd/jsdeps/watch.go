package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/odvcencio/jsdeps/pkg/deps"
	"github.com/odvcencio/jsdeps/pkg/ignore"
	"github.com/odvcencio/jsdeps/pkg/model"
)

func newWatchCmd() *cobra.Command {
	var root string
	var baseDir string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <entry>",
		Short: "Re-collect dependencies whenever files under the project root change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			matcher, err := p.cfg.IgnoreMatcher(p.fs.Fs())
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			session := &watchSession{
				collector: p.collector(),
				request:   p.request(args[0], baseDir),
				out:       cmd.OutOrStdout(),
			}
			if _, err := session.refresh(ctx); err != nil {
				return err
			}

			ignorePaths := map[string]bool{}
			if abs, err := filepath.Abs(p.cfg.OutputPath()); err == nil {
				ignorePaths[abs] = true
			}
			return watchWithFSNotify(ctx, p.cfg.ProjectRoot, debounce, ignorePaths, matcher, func(changed []string) {
				p.logger.Info("change detected", "paths", len(changed))
				if _, err := session.refresh(ctx); err != nil {
					p.logger.Error("collect failed", "err", err)
				}
			})
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root to watch")
	cmd.Flags().StringVar(&baseDir, "base", "", "directory output paths are relative to (default: entry directory)")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "quiet period before re-collecting")
	return cmd
}

// watchSession re-runs one Collect and prints the file list when it differs
// from the previous run.
type watchSession struct {
	collector *deps.Collector
	request   deps.Request
	out       io.Writer

	last *model.Result
	runs int
}

func (s *watchSession) refresh(ctx context.Context) (bool, error) {
	result, err := s.collector.Collect(ctx, s.request)
	if err != nil {
		return false, err
	}
	s.runs++
	if s.last != nil && s.last.Equal(&result) {
		return false, nil
	}
	s.last = &result
	fmt.Fprintf(s.out, "deps: run=%d files=%d warnings=%d\n", s.runs, result.FileCount(), len(result.Warnings))
	printResult(s.out, result, false)
	return true, nil
}

func watchWithFSNotify(ctx context.Context, target string, debounce time.Duration, ignorePaths map[string]bool, ignoreMatcher *ignore.Matcher, onChange func(changedPaths []string)) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	absTarget = filepath.Clean(absTarget)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, absTarget, absTarget, ignorePaths, ignoreMatcher); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	pending := false
	pendingPaths := map[string]bool{}

	resetDebounce := func(path string) {
		if path != "" {
			pendingPaths[path] = true
		}
		if pending {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		timer.Reset(debounce)
		pending = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath := filepath.Clean(event.Name)
			if shouldIgnoreWatchPath(eventPath, ignorePaths, absTarget, ignoreMatcher) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(eventPath); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, eventPath, absTarget, ignorePaths, ignoreMatcher)
				}
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			resetDebounce(eventPath)
		case <-timer.C:
			if pending {
				pending = false
				changed := make([]string, 0, len(pendingPaths))
				for path := range pendingPaths {
					changed = append(changed, path)
				}
				sort.Strings(changed)
				pendingPaths = map[string]bool{}
				onChange(changed)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string, projectRoot string, ignorePaths map[string]bool, ignoreMatcher *ignore.Matcher) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if ignorePaths[path] || shouldSkipWatchDir(projectRoot, path, entry.Name(), ignoreMatcher) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func shouldSkipWatchDir(root, path, name string, ignoreMatcher *ignore.Matcher) bool {
	if path == root {
		return false
	}
	if name == "node_modules" || strings.HasPrefix(name, ".") {
		return true
	}
	if relPath, err := filepath.Rel(root, path); err == nil {
		if ignoreMatcher.Match(filepath.ToSlash(relPath), true) {
			return true
		}
	}
	return false
}

func shouldIgnoreWatchPath(path string, ignorePaths map[string]bool, root string, ignoreMatcher *ignore.Matcher) bool {
	if ignorePaths[path] {
		return true
	}

	base := filepath.Base(path)
	if base == ".DS_Store" || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx") || strings.HasPrefix(base, ".#") || strings.HasSuffix(base, "~") {
		return true
	}
	if relPath, err := filepath.Rel(root, path); err == nil {
		if ignoreMatcher.Match(filepath.ToSlash(relPath), false) {
			return true
		}
	}
	return false
}
