// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs a rebuild callback when relevant files under a
// project root change on disk.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
)

// DefaultDebounce is how long the watcher waits after the last relevant
// event before triggering a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc is invoked after a debounced batch of file changes.
//
// A non-nil error is logged and the watch loop keeps running.
type RebuildFunc func(ctx context.Context) error

// Watcher monitors a project tree and triggers rebuilds on change.
//
// # Description
//
// Registers fsnotify watches on the project root and every
// non-blacklisted subdirectory. Events for files whose extension is not
// in the configured whitelist are ignored. Relevant events are batched
// with a debounce window so a burst of saves produces one rebuild.
//
// # Thread Safety
//
// Run must only be called once. The rebuild callback is invoked from
// the Run goroutine, never concurrently with itself.
type Watcher struct {
	cfg      *config.Config
	rebuild  RebuildFunc
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *logging.Logger

	excluded map[string]struct{}
	allowed  map[string]struct{}
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger overrides the logger used by the watcher.
func WithLogger(logger *logging.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher for the resolved configuration.
//
// # Inputs
//
//   - cfg: Resolved configuration. Root, Blacklist and the extension
//     classes drive what gets watched.
//   - rebuild: Callback invoked after each debounced change batch.
//
// # Outputs
//
//   - *Watcher: Ready-to-run watcher (call Run to begin).
//   - error: Non-nil if the underlying fsnotify watcher cannot be created.
func New(cfg *config.Config, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		rebuild:  rebuild,
		fsw:      fsw,
		debounce: DefaultDebounce,
		logger:   logging.Default(),
		excluded: make(map[string]struct{}, len(cfg.Blacklist)),
		allowed:  make(map[string]struct{}),
	}
	for _, dir := range cfg.Blacklist {
		w.excluded[filepath.Clean(dir)] = struct{}{}
	}
	for _, ext := range cfg.Whitelist() {
		w.allowed[ext] = struct{}{}
	}

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the tree and blocks until the context is cancelled.
//
// # Description
//
// Registers watches for the root and all non-blacklisted
// subdirectories, then loops over filesystem events. Directories
// created while watching are added to the watch set. Rebuild errors
// are logged and the loop continues.
//
// # Inputs
//
//   - ctx: Cancelling the context stops the loop.
//
// # Outputs
//
//   - error: Non-nil if the initial watch registration fails.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.registerTree(); err != nil {
		return err
	}
	w.logger.Info("watching for changes",
		"root", w.cfg.Root,
		"debounce", w.debounce.String())

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Debug("watch loop stopping")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.maybeWatchNewDir(event.Name)
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected",
				"path", event.Name,
				"op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("rebuild failed", "error", err)
			}
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// registerTree adds the root and every non-blacklisted subdirectory to
// the watch set.
func (w *Watcher) registerTree() error {
	return filepath.WalkDir(w.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.isExcluded(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// maybeWatchNewDir starts watching a directory created after Run began.
func (w *Watcher) maybeWatchNewDir(path string) {
	if w.isExcluded(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory",
			"path", path,
			"error", err)
	}
}

// relevant reports whether an event should count toward a rebuild.
//
// Chmod-only events are noise on several platforms. Everything else
// counts when the file extension is in the configured whitelist.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	_, ok := w.allowed[filepath.Ext(event.Name)]
	return ok
}

// isExcluded reports whether path is one of the blacklisted directories.
func (w *Watcher) isExcluded(path string) bool {
	_, ok := w.excluded[filepath.Clean(path)]
	return ok
}
