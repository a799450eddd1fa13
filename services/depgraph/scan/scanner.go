// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scan discovers the candidate files for graph construction.
//
// The scanner walks the configured root with an explicit recursion,
// pruning blacklisted directories before descending into them and
// keeping only files whose extension is on the configured whitelist.
// Traversal failures are fatal for the run: the graph is built from a
// complete scan or not at all.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
)

var (
	// ErrInvalidRoot indicates the scan root does not exist or is not
	// a directory.
	ErrInvalidRoot = errors.New("invalid scan root")

	// ErrTraversal indicates a directory could not be read during the
	// walk. There is no partial-result recovery.
	ErrTraversal = errors.New("traversal failed")
)

// FileEntry describes one discovered file. Immutable once created.
type FileEntry struct {
	// Path is the absolute, cleaned file path.
	Path string

	// Dir is the absolute path of the containing directory.
	Dir string

	// Base is the file name with its final extension removed. This is
	// the identity used for graph nodes and include-target matching;
	// it is never qualified by directory.
	Base string

	// Ext is the final extension including the dot, e.g. ".hpp".
	Ext string
}

// BaseName reduces a path to its node identity: the last path element
// with everything from the final dot onward removed. A name without a
// dot is returned unchanged.
func BaseName(path string) string {
	name := filepath.Base(path)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Scanner enumerates whitelisted files under a root directory.
//
// Construct with New; the zero value is not usable. A Scanner holds no
// per-run state and may be reused for repeated scans of the same
// configuration (the watch loop does exactly that).
type Scanner struct {
	root    string
	exclude map[string]struct{}
	allowed map[string]struct{}
	logger  *logging.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger. Defaults to logging.Default().
func WithLogger(l *logging.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// New creates a Scanner from the resolved run configuration.
func New(cfg config.Config, opts ...Option) *Scanner {
	s := &Scanner{
		root:    cfg.Root,
		exclude: make(map[string]struct{}, len(cfg.Blacklist)),
		allowed: make(map[string]struct{}),
		logger:  logging.Default(),
	}
	for _, dir := range cfg.Blacklist {
		s.exclude[filepath.Clean(dir)] = struct{}{}
	}
	for _, ext := range cfg.Whitelist() {
		s.allowed[ext] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the root and returns every whitelisted file.
//
// Description:
//
//	Recursively descends from the configured root. A directory whose
//	absolute path equals a blacklist entry is skipped along with its
//	entire subtree; every other directory is descended regardless of
//	depth. Files with non-whitelisted extensions are silently omitted.
//	Symlinks are not followed.
//
// Inputs:
//
//	ctx - Context checked between directories; cancellation aborts the
//	      scan with the context's error.
//
// Outputs:
//
//	[]FileEntry - The discovered files. Ordering is a traversal detail,
//	              not a contract; consumers must not rely on it.
//	error - ErrInvalidRoot for a bad root, ErrTraversal (wrapping the
//	        cause) for any filesystem failure mid-walk. No partial
//	        results accompany an error.
func (s *Scanner) Scan(ctx context.Context) ([]FileEntry, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, s.root)
	}

	var files []FileEntry
	if err := s.scanDir(ctx, s.root, &files); err != nil {
		return nil, err
	}

	s.logger.Debug("scan complete", "root", s.root, "files", len(files))
	return files, nil
}

// scanDir recursively scans one directory into acc.
func (s *Scanner) scanDir(ctx context.Context, dir string, acc *[]FileEntry) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrTraversal, ctx.Err())
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTraversal, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if _, skip := s.exclude[path]; skip {
				s.logger.Debug("skipping blacklisted directory", "path", path)
				continue
			}
			if err := s.scanDir(ctx, path, acc); err != nil {
				return err
			}
			continue
		}

		// Symlinks are skipped rather than resolved; a link into the
		// tree would double-count files and a link out of it would
		// escape the root.
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if _, ok := s.allowed[ext]; !ok {
			continue
		}

		*acc = append(*acc, FileEntry{
			Path: path,
			Dir:  dir,
			Base: BaseName(entry.Name()),
			Ext:  ext,
		})
	}

	return nil
}
