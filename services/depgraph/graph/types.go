// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph holds the dependency graph model and its builder.
//
// Node identity is a bare string: a file's name with the final
// extension removed, or a group proxy id for collapsed directories.
// Identity is deliberately not qualified by directory: two files
// named the same in different directories merge into one node. Callers
// who need distinct nodes must place the files under distinct names
// or group rules.
package graph

import (
	"sort"

	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
)

// GroupProxyPrefix prefixes every group node id, keeping proxies
// visually and textually distinct from file nodes.
const GroupProxyPrefix = "group - "

// NodeKind distinguishes file nodes from group proxies.
type NodeKind int

const (
	// NodeDirect is a node backed by a single file name.
	NodeDirect NodeKind = iota

	// NodeGroupProxy is a synthetic node standing in for every file
	// under a grouped directory.
	NodeGroupProxy
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeDirect:
		return "direct"
	case NodeGroupProxy:
		return "group"
	default:
		return "unknown"
	}
}

// Color is a display color understood by the rendering backend.
type Color string

// Edge colors by includer class, and node fills by kind. These are the
// attribute values handed to the renderer unchanged.
const (
	ColorHeader  Color = "red"
	ColorSource  Color = "blue"
	ColorNeutral Color = "black"

	FillDirect Color = "lightblue2"
	FillGroup  Color = "lightgreen"
)

// ColorFor maps an extension class to its edge color.
func ColorFor(c config.Class) Color {
	switch c {
	case config.ClassHeader:
		return ColorHeader
	case config.ClassSource:
		return ColorSource
	default:
		return ColorNeutral
	}
}

// Node is one unit in the dependency graph.
type Node struct {
	// ID is the unique identity within the graph.
	ID string

	// Kind reports whether this is a file node or a group proxy.
	Kind NodeKind
}

// Edge is a directed "is depended upon by" relationship.
//
// From is the included target, To is the includer. Reversed marks the
// edge for reversed display: the renderer emits it includer-first with
// the drawing direction flipped, which keeps the rendered layout
// identical to the tool's historical output while the arrow still
// points from dependency to dependent.
type Edge struct {
	// From is the node id of the included target.
	From string

	// To is the node id of the including file.
	To string

	// Color is the display color, chosen from the includer's
	// extension class.
	Color Color

	// Reversed marks the edge for reversed display direction.
	Reversed bool
}

// Graph is the node set and edge set produced by one build.
//
// Graphs are built single-threaded and read afterwards; there is no
// internal locking. Duplicate edges are legal; merging them is the
// renderer's job when Strict is set.
type Graph struct {
	nodes  map[string]Node
	edges  []Edge
	strict bool
}

// NewGraph creates an empty graph. strict is carried through to the
// renderer, which merges duplicate multi-edges when it is set.
func NewGraph(strict bool) *Graph {
	return &Graph{
		nodes:  make(map[string]Node),
		strict: strict,
	}
}

// AddNode inserts a node. Inserting an id that already exists is a
// no-op: node identity is computed once and never changes.
func (g *Graph) AddNode(n Node) {
	if _, exists := g.nodes[n.ID]; exists {
		return
	}
	g.nodes[n.ID] = n
}

// HasNode reports whether id is in the node set.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddEdge appends an edge. Duplicates are allowed.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
}

// NodeIDs returns every node id in sorted order. Sorting is a display
// convenience for deterministic output, not a semantic guarantee.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns the edge slice in insertion order. The slice is shared
// with the graph; callers must not modify it.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Strict reports whether the renderer should merge duplicate edges.
func (g *Graph) Strict() bool {
	return g.strict
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
