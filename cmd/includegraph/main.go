// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command includegraph renders the include dependency graph of a C/C++
// project tree.
//
// includegraph walks a project root, extracts #include directives from
// headers and sources, and renders the resulting graph with Graphviz:
//   - Edges from headers are red, from sources blue, others black
//   - Grouped directories collapse into a single "group - <name>" node
//   - Output is auto-named from the project's git state unless -o is given
//
// Usage:
//
//	includegraph /path/to/project
//	includegraph -f png /path/to/project
//	includegraph -o build/deps -s /path/to/project
//	includegraph -b third_party -g src/vendor /path/to/project
//	includegraph --config graph.yaml .
//
// Watch mode re-renders whenever a header or source file changes:
//
//	includegraph watch /path/to/project
package main

import (
	"os"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the parse error and usage.
		os.Exit(ExitBadArgs)
	}
}
