// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render turns a built graph into Graphviz DOT source and
// hands it to the external dot binary for image generation.
package render

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/IncludeGraph/services/depgraph/graph"
)

// Generate produces DOT source for the graph.
//
// A strict graph lets Graphviz merge duplicate edges; otherwise every
// recorded edge is drawn. Nodes inherit a filled lightblue2 default
// and group proxies override it with lightgreen. Edges marked Reversed
// are written includer-first with dir=back: Graphviz then ranks the
// includer above its dependency while drawing the arrowhead at the
// dependency end, which is the layout this tool has always produced.
func Generate(g *graph.Graph) string {
	var sb strings.Builder

	if g.Strict() {
		sb.WriteString("strict digraph {\n")
	} else {
		sb.WriteString("digraph {\n")
	}
	sb.WriteString(fmt.Sprintf("\tnode [color=%q style=\"filled\"];\n", graph.FillDirect))

	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		if n.Kind == graph.NodeGroupProxy {
			sb.WriteString(fmt.Sprintf("\t%s [color=%q];\n", quoteID(id), graph.FillGroup))
			continue
		}
		sb.WriteString(fmt.Sprintf("\t%s;\n", quoteID(id)))
	}

	for _, e := range g.Edges() {
		if e.Reversed {
			sb.WriteString(fmt.Sprintf("\t%s -> %s [dir=\"back\" color=%q];\n",
				quoteID(e.To), quoteID(e.From), e.Color))
			continue
		}
		sb.WriteString(fmt.Sprintf("\t%s -> %s [color=%q];\n",
			quoteID(e.From), quoteID(e.To), e.Color))
	}

	sb.WriteString("}\n")
	return sb.String()
}

var idEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quoteID wraps an id in quotes for DOT. Ids regularly contain spaces
// ("group - lib"), so quoting is unconditional.
func quoteID(id string) string {
	return `"` + idEscaper.Replace(id) + `"`
}
