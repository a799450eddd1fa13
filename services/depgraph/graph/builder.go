// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/include"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/scan"
)

// IncludeSource supplies the include targets referenced by a file.
// *include.Extractor is the production implementation; tests substitute
// fixed maps.
type IncludeSource interface {
	Extract(path string) []string
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Logger receives build progress and skip decisions.
	Logger *logging.Logger

	// Extractor supplies include targets per file.
	Extractor IncludeSource
}

// DefaultBuilderOptions returns the production defaults.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		Logger:    logging.Default(),
		Extractor: include.New(),
	}
}

// BuilderOption customizes builder construction.
type BuilderOption func(*BuilderOptions)

// WithLogger sets the build logger.
func WithLogger(l *logging.Logger) BuilderOption {
	return func(o *BuilderOptions) {
		o.Logger = l
	}
}

// WithExtractor replaces the include source.
func WithExtractor(src IncludeSource) BuilderOption {
	return func(o *BuilderOptions) {
		o.Extractor = src
	}
}

// Builder assembles the dependency graph from discovered files.
//
// A Builder is immutable after construction and holds no per-build
// state; every Build starts from an empty graph. Builds run strictly
// sequentially, one file at a time, in one goroutine.
type Builder struct {
	cfg       config.Config
	resolver  *Resolver
	extractor IncludeSource
	logger    *logging.Logger
}

// NewBuilder creates a Builder for the given run configuration.
func NewBuilder(cfg config.Config, opts ...BuilderOption) *Builder {
	options := DefaultBuilderOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Builder{
		cfg:       cfg,
		resolver:  NewResolver(cfg),
		extractor: options.Extractor,
		logger:    options.Logger,
	}
}

// Resolver exposes the builder's node resolver, mainly so callers can
// report the active group rules.
func (b *Builder) Resolver() *Resolver {
	return b.resolver
}

// Build produces the graph for one discovered file list.
//
// Description:
//
//	Runs the two construction passes. The first registers a node for
//	every file (group proxies for files under a group prefix, direct
//	nodes otherwise) and records which base names were folded into
//	which proxy. The second walks the files directory by directory,
//	skipping directories covered by a group rule, and turns each
//	resolvable include target into an edge.
//
// Inputs:
//
//	ctx - Checked between files; cancellation aborts the build.
//	files - The scanner's output. An empty list is valid and produces
//	        an empty graph.
//
// Outputs:
//
//	*Graph - The completed graph. Nil only when err is non-nil.
//	error - Only a cancelled context fails a build; per-file read
//	        problems degrade to missing edges.
//
// Behavior:
//
//   - An include of the file's own name is dropped (no self-edges).
//   - A target matching no known node or proxy is dropped silently;
//     system and third-party headers land here.
//   - Edges point from the included target to the includer and are
//     marked for reversed display.
//   - Edge color comes from the includer's extension class.
func (b *Builder) Build(ctx context.Context, files []scan.FileEntry) (*Graph, error) {
	start := time.Now()
	ctx, span := startBuildSpan(ctx, len(files))
	defer span.End()

	g := NewGraph(b.cfg.Strict)
	proxies := b.registerNodes(g, files)
	byDir := partitionByDir(files)

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		if b.resolver.Covers(dir) {
			b.logger.Debug("skipping grouped directory", "dir", dir)
			continue
		}
		for _, f := range byDir[dir] {
			select {
			case <-ctx.Done():
				err := fmt.Errorf("build cancelled: %w", ctx.Err())
				span.RecordError(err)
				recordBuildMetrics(ctx, time.Since(start), 0, 0, false)
				return nil, err
			default:
			}
			b.connectFile(g, proxies, f)
		}
	}

	setBuildSpanResult(span, g.NodeCount(), g.EdgeCount())
	recordBuildMetrics(ctx, time.Since(start), g.NodeCount(), g.EdgeCount(), true)
	b.logger.Info("graph built",
		"files", len(files),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", time.Since(start))

	return g, nil
}

// registerNodes adds one node per file and returns the base-name to
// proxy-id mapping for files folded into groups. The mapping is what
// lets an include of "widget.h" resolve to "group - lib" when widget.h
// lives inside the grouped directory.
func (b *Builder) registerNodes(g *Graph, files []scan.FileEntry) map[string]string {
	proxies := make(map[string]string)
	for _, f := range files {
		id, isProxy := b.resolver.Resolve(f.Path)
		if isProxy {
			g.AddNode(Node{ID: id, Kind: NodeGroupProxy})
			proxies[f.Base] = id
			continue
		}
		g.AddNode(Node{ID: id, Kind: NodeDirect})
	}
	return proxies
}

// partitionByDir buckets files by their containing directory.
func partitionByDir(files []scan.FileEntry) map[string][]scan.FileEntry {
	byDir := make(map[string][]scan.FileEntry)
	for _, f := range files {
		byDir[f.Dir] = append(byDir[f.Dir], f)
	}
	return byDir
}

// connectFile emits the edges for one file's include targets.
func (b *Builder) connectFile(g *Graph, proxies map[string]string, f scan.FileEntry) {
	ownID, _ := b.resolver.Resolve(f.Path)
	color := ColorFor(b.cfg.ClassOf(f.Ext))

	for _, target := range b.extractor.Extract(f.Path) {
		if target == f.Base {
			continue
		}

		var destID string
		if g.HasNode(target) {
			destID = target
		} else if proxyID, ok := proxies[target]; ok {
			destID = proxyID
		} else {
			// Unresolved: a system header or a file outside the scan.
			continue
		}

		if destID == ownID {
			continue
		}

		g.AddEdge(Edge{
			From:     destID,
			To:       ownID,
			Color:    color,
			Reversed: true,
		})
	}
}
