package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/normaudit/internal/cli/output"
)

// watchDebounce is how long the watcher waits for writes to settle.
const watchDebounce = 100 * time.Millisecond

// runWatch audits once, then re-runs the audit whenever a schema or the
// invariants file is written, until the context is cancelled or the process
// is interrupted. Audit failures are reported and watching continues.
func runWatch(ctx context.Context, a *auditor, r *output.Renderer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	files := a.watchedFiles()
	if err := watchParentDirs(watcher, files); err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}

	rerun := func() {
		if err := a.runOnce(ctx, r); err != nil {
			var findings *FindingsError
			if !errors.As(err, &findings) {
				r.Errorf("Error: %v\n", err)
			}
		}
		r.Errorf("Watching %d file(s) for changes. Press Ctrl+C to stop.\n", len(files))
	}

	rerun()
	watchLoop(ctx, watcher, files, watchDebounce, rerun, a.logger.Error)
	return nil
}

// watchedFiles returns the cleaned absolute paths of every input file.
func (a *auditor) watchedFiles() map[string]bool {
	paths := append([]string{}, a.cfg.Schemas...)
	if a.cfg.Invariants != "" {
		paths = append(paths, a.cfg.Invariants)
	}
	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			files[abs] = true
		}
	}
	return files
}

// watchParentDirs watches the directory of every file. Editors often replace
// files on save, which a watch on the file itself would miss.
func watchParentDirs(watcher *fsnotify.Watcher, files map[string]bool) error {
	dirs := make(map[string]bool)
	for f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

// watchLoop calls run after write or create events on files settle for
// debounce. run is called from the loop goroutine so audits never overlap.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, files map[string]bool,
	debounce time.Duration, run func(), logError func(msg string, args ...any)) {
	// Debounce timer
	var debounceTimer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !files[filepath.Clean(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
					// Rerun already pending
				}
			})

		case <-trigger:
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logError("watcher error", "error", err)
		}
	}
}
