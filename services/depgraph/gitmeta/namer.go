// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gitmeta derives output file names from repository metadata.
//
// Naming never fails: any git problem (no repository, no commits, no
// git binary at all) falls back to a timestamped local name.
package gitmeta

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
)

// timestampLayout matches the tool's historical output names, e.g.
// "local - 21-08-2026 14.03.59" (dots keep the name filesystem-safe).
const timestampLayout = "02-01-2006 15.04.05"

// Namer produces auto-generated output names for a source tree.
type Namer struct {
	gitBin string
	now    func() time.Time
	logger *logging.Logger
}

// Option configures a Namer.
type Option func(*Namer)

// WithGitBinary overrides the git binary name or path.
func WithGitBinary(bin string) Option {
	return func(n *Namer) {
		n.gitBin = bin
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Namer) {
		n.now = now
	}
}

// WithLogger sets the logger. Defaults to logging.Default().
func WithLogger(l *logging.Logger) Option {
	return func(n *Namer) {
		n.logger = l
	}
}

// NewNamer creates a Namer that invokes "git" from PATH unless
// overridden.
func NewNamer(opts ...Option) *Namer {
	n := &Namer{
		gitBin: "git",
		now:    time.Now,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AutoName returns a name describing the tree at root.
//
// Preference order: the output of git describe --tags; failing that,
// the short commit hash. A dirty worktree gets " - <timestamp>"
// appended so successive renders of uncommitted states stay distinct.
// If root is not inside a repository, or git is unusable for any
// reason, the name is "local - <timestamp>".
func (n *Namer) AutoName(ctx context.Context, root string) string {
	name, err := n.repoName(ctx, root)
	if err != nil {
		n.logger.Debug("falling back to local name", "root", root, "error", err)
		return "local - " + n.now().Format(timestampLayout)
	}
	return name
}

// repoName derives the name from repository state.
func (n *Namer) repoName(ctx context.Context, root string) (string, error) {
	name, err := n.git(ctx, root, "describe", "--tags")
	if err != nil {
		name, err = n.git(ctx, root, "rev-parse", "--short=6", "HEAD")
		if err != nil {
			return "", err
		}
	}

	dirty, err := n.isDirty(ctx, root)
	if err != nil {
		return "", err
	}
	if dirty {
		name += " - " + n.now().Format(timestampLayout)
	}
	return name, nil
}

// isDirty reports whether the worktree has staged or unstaged changes.
// Untracked files do not count as dirty.
func (n *Namer) isDirty(ctx context.Context, root string) (bool, error) {
	out, err := n.git(ctx, root, "status", "--porcelain", "-uno")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// git runs one git command with the working directory set to dir and
// returns its trimmed combined output.
func (n *Namer) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, n.gitBin, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %s: %w",
			strings.Join(args, " "), strings.TrimSpace(string(output)), err)
	}
	return strings.TrimSpace(string(output)), nil
}
