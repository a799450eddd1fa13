// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/graph"
)

var (
	// ErrGraphvizNotFound indicates the dot binary is not installed or
	// not on PATH. This is a configuration problem, reported before
	// anything is written.
	ErrGraphvizNotFound = errors.New("graphviz 'dot' binary not found")

	// ErrRenderFailed indicates dot ran and failed, or the output
	// could not be written.
	ErrRenderFailed = errors.New("render failed")
)

// Renderer drives the external Graphviz dot process.
type Renderer struct {
	dotBin string
	logger *logging.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDotBinary overrides the dot binary name or path.
func WithDotBinary(bin string) Option {
	return func(r *Renderer) {
		r.dotBin = bin
	}
}

// WithLogger sets the logger. Defaults to logging.Default().
func WithLogger(l *logging.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// NewRenderer creates a Renderer that invokes "dot" from PATH unless
// overridden.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		dotBin: "dot",
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the graph's DOT source next to base, invokes dot to
// produce base.<format>, and removes the intermediate source on
// success (it is left behind on failure, for inspection).
//
// base is an extension-less output path such as "img/v1.4.2"; parent
// directories are created as needed. Returns the image path.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, format, base string) (string, error) {
	bin, err := exec.LookPath(r.dotBin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGraphvizNotFound, err)
	}

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
		}
	}

	srcPath := base
	outPath := base + "." + format

	if err := os.WriteFile(srcPath, []byte(Generate(g)), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	cmd := exec.CommandContext(ctx, bin, "-T"+format, "-o", outPath, srcPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, strings.TrimSpace(string(output)), err)
	}

	if err := os.Remove(srcPath); err != nil {
		r.logger.Warn("could not remove intermediate dot source", "path", srcPath, "error", err)
	}

	r.logger.Info("rendered graph", "path", outPath, "format", format,
		"nodes", g.NodeCount(), "edges", g.EdgeCount())
	return outPath, nil
}
