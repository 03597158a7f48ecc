// Package watch re-runs a callback when files below a directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 100 * time.Millisecond

// Config holds configuration for a Watcher.
type Config struct {
	Dir      string
	Debounce time.Duration
	// Match reports whether a changed file is relevant. Nil matches all files.
	Match  func(path string) bool
	Logger *slog.Logger
}

// Watcher debounces filesystem events below a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	match    func(path string) bool
	logger   *slog.Logger
}

// New creates a Watcher.
func New(cfg Config) *Watcher {
	w := &Watcher{
		dir:      cfg.Dir,
		debounce: cfg.Debounce,
		match:    cfg.Match,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.match == nil {
		w.match = func(string) bool { return true }
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	return w
}

// Run watches until ctx is cancelled, calling fn once per burst of
// relevant changes. fn runs on the watching goroutine, so calls never
// overlap; events arriving during a call start a new debounce window.
// Errors from fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watching for changes", "dir", w.dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var trigger string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(watcher, event) {
				continue
			}
			trigger = event.Name
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Debug("change detected", "file", trigger)
			if err := fn(ctx); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// relevant filters events and starts watching newly created directories.
func (w *Watcher) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Files may already exist in a directory moved into place.
			if err := watchDirRecursive(watcher, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
			return true
		}
	}

	// A removed directory can no longer be inspected; assume it held icons.
	if (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && filepath.Ext(event.Name) == "" {
		return true
	}

	return w.match(event.Name)
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
