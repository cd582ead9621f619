package runner

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ignoredDirs are never watched.
var ignoredDirs = map[string]bool{
	".git":         true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"testdata":     true,
	"vendor":       true,
}

// Watch runs once over root and then regenerates units as they change, until
// ctx is canceled. Changes are batched for the configured debounce delay. The
// runner's own writes settle after one extra pass because regeneration is
// idempotent.
func (r *Runner) Watch(ctx context.Context, root string) error {
	if _, err := r.Run(ctx, root); err != nil {
		r.logger.Warn("Initial run finished with errors", zap.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := r.watchDirs(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			r.logger.Warn("Failed to watch directory", zap.String("path", dir), zap.Error(err))
		}
	}
	r.logger.Info("File watcher initialized", zap.Int("watched_directories", len(dirs)))

	debounce := r.options.Debounce
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Context canceled, stopping file watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && r.isWatchableDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					r.logger.Warn("Failed to watch directory", zap.String("path", event.Name), zap.Error(err))
				}
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !r.wants(root, event.Name) {
				continue
			}
			r.logger.Debug("Detected unit change, debouncing", zap.String("unit", event.Name))
			pending[event.Name] = true
			timer.Reset(debounce)
		case <-timer.C:
			files := slices.Sorted(maps.Keys(pending))
			clear(pending)
			if _, err := r.RunFiles(ctx, files); err != nil {
				r.logger.Warn("Regeneration finished with errors", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// watchDirs lists root and every directory below it that is not ignored.
func (r *Runner) watchDirs(root string) ([]string, error) {
	var dirs []string
	err := afero.Walk(r.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && ignoredDirs[info.Name()] {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return dirs, nil
}

func (r *Runner) isWatchableDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir() && !ignoredDirs[info.Name()]
}

// wants reports whether a changed path is a unit the runner would discover.
func (r *Runner) wants(root, path string) bool {
	if !strings.HasSuffix(path, ".go") {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return r.options.ShouldInclude(filepath.ToSlash(rel), matchPattern)
}
