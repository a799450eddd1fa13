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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/IncludeGraph/services/depgraph/graph"
)

func buildSample(strict bool) *graph.Graph {
	g := graph.NewGraph(strict)
	g.AddNode(graph.Node{ID: "main", Kind: graph.NodeDirect})
	g.AddNode(graph.Node{ID: "a", Kind: graph.NodeDirect})
	g.AddNode(graph.Node{ID: "group - lib", Kind: graph.NodeGroupProxy})
	g.AddEdge(graph.Edge{From: "a", To: "main", Color: graph.ColorSource, Reversed: true})
	g.AddEdge(graph.Edge{From: "group - lib", To: "main", Color: graph.ColorSource, Reversed: true})
	return g
}

func TestGenerate_Digraph(t *testing.T) {
	out := Generate(buildSample(false))

	assert.True(t, strings.HasPrefix(out, "digraph {\n"), "non-strict header:\n%s", out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestGenerate_StrictKeyword(t *testing.T) {
	out := Generate(buildSample(true))

	assert.True(t, strings.HasPrefix(out, "strict digraph {\n"), "strict header:\n%s", out)
}

func TestGenerate_NodeDefaults(t *testing.T) {
	out := Generate(buildSample(false))

	assert.Contains(t, out, `node [color="lightblue2" style="filled"];`)
	assert.Contains(t, out, `"main";`)
}

func TestGenerate_GroupProxyFill(t *testing.T) {
	out := Generate(buildSample(false))

	assert.Contains(t, out, `"group - lib" [color="lightgreen"];`)
}

// Reversed edges are written includer-first with dir=back so the
// historical layout survives while the arrow points at the includer.
func TestGenerate_ReversedEdgeStatementOrder(t *testing.T) {
	out := Generate(buildSample(false))

	assert.Contains(t, out, `"main" -> "a" [dir="back" color="blue"];`)
	assert.Contains(t, out, `"main" -> "group - lib" [dir="back" color="blue"];`)
}

func TestGenerate_ForwardEdge(t *testing.T) {
	g := graph.NewGraph(false)
	g.AddNode(graph.Node{ID: "x"})
	g.AddNode(graph.Node{ID: "y"})
	g.AddEdge(graph.Edge{From: "x", To: "y", Color: graph.ColorHeader})

	out := Generate(g)
	assert.Contains(t, out, `"x" -> "y" [color="red"];`)
}

func TestGenerate_DuplicateEdgesAllEmitted(t *testing.T) {
	g := graph.NewGraph(false)
	g.AddNode(graph.Node{ID: "a"})
	g.AddNode(graph.Node{ID: "b"})
	e := graph.Edge{From: "a", To: "b", Color: graph.ColorSource, Reversed: true}
	g.AddEdge(e)
	g.AddEdge(e)

	out := Generate(g)
	assert.Equal(t, 2, strings.Count(out, `"b" -> "a"`),
		"merging duplicates is graphviz's job under strict, not ours:\n%s", out)
}

func TestGenerate_EmptyGraph(t *testing.T) {
	out := Generate(graph.NewGraph(false))

	assert.Equal(t, "digraph {\n\tnode [color=\"lightblue2\" style=\"filled\"];\n}\n", out)
}

func TestQuoteID_Escaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`group - lib`, `"group - lib"`},
		{`has"quote`, `"has\"quote"`},
		{`back\slash`, `"back\\slash"`},
	}

	for _, tt := range tests {
		if got := quoteID(tt.in); got != tt.want {
			t.Errorf("quoteID(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
