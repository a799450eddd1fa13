// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/gitmeta"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/graph"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/include"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/render"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/scan"
)

// Exit codes for includegraph commands.
const (
	ExitSuccess = 0 // Graph rendered successfully
	ExitError   = 1 // Scan, build, or render failure
	ExitBadArgs = 2 // Invalid arguments or flags
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	outputFormat  string
	strictEdges   bool
	outputBase    string
	blacklistDirs []string
	groupDirs     []string
	configPath    string
	logLevel      string
	logJSON       bool
	quiet         bool
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// rootCmd renders the include graph for a project root.
var rootCmd = &cobra.Command{
	Use:   "includegraph [flags] [ROOT]",
	Short: "Render the include dependency graph of a C/C++ project",
	Long: `Walks a project tree, extracts #include directives from headers and
sources, and renders the dependency graph with Graphviz.

ROOT defaults to the current directory. The rendered image path is
printed on stdout.

Examples:
  includegraph /path/to/project
  includegraph -f png /path/to/project
  includegraph -o build/deps -s .
  includegraph -b third_party -b out -g src/vendor /path/to/project
  includegraph --config graph.yaml .`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGraph,
}

// versionCmd prints the binary version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the includegraph version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("includegraph %s\n", version)
	},
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "",
		"Output image format: bmp, gif, jpg, png, pdf, svg (default svg)")
	rootCmd.PersistentFlags().BoolVarP(&strictEdges, "strict", "s", false,
		"Merge duplicate edges (strict digraph)")
	rootCmd.PersistentFlags().StringVarP(&outputBase, "output", "o", "",
		"Output base path; disables git auto-naming")
	rootCmd.PersistentFlags().StringArrayVarP(&blacklistDirs, "blacklist", "b", nil,
		"Directory to exclude from the scan (repeatable, relative to ROOT)")
	rootCmd.PersistentFlags().StringArrayVarP(&groupDirs, "group", "g", nil,
		"Directory to collapse into a single node (repeatable, relative to ROOT)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"Suppress all log output")

	rootCmd.Version = version
	rootCmd.AddCommand(versionCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

// runGraph executes a one-shot scan, build, and render.
func runGraph(cmd *cobra.Command, args []string) {
	logger, err := buildLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitBadArgs)
	}

	cfg, err := resolveConfig(rootArg(args))
	if err != nil {
		logger.Error("Configuration error", "error", err)
		os.Exit(ExitError)
	}

	outPath, err := generate(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Graph generation failed", "error", err)
		os.Exit(ExitError)
	}

	fmt.Println(outPath)
	os.Exit(ExitSuccess)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// rootArg returns the positional project root, defaulting to ".".
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// buildLogger constructs the process logger from the global flags and
// tags it with a per-invocation run id.
func buildLogger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:   level,
		Service: "includegraph",
		JSON:    logJSON,
		Quiet:   quiet,
	})
	return logger.With("run_id", uuid.NewString()), nil
}

// resolveConfig merges flags with the optional YAML config file.
func resolveConfig(root string) (config.Config, error) {
	var fileCfg config.FileConfig
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = fc
	}

	opts := config.Options{
		Root:      root,
		Blacklist: blacklistDirs,
		Groups:    groupDirs,
		Strict:    strictEdges,
		Format:    outputFormat,
		Output:    outputBase,
	}
	return config.Resolve(opts, fileCfg)
}

// generate runs the scan -> build -> render pipeline and returns the
// rendered image path.
func generate(ctx context.Context, cfg config.Config, logger *logging.Logger) (string, error) {
	files, err := scan.New(cfg, scan.WithLogger(logger)).Scan(ctx)
	if err != nil {
		return "", err
	}
	logger.Info("Scan complete", "root", cfg.Root, "files", len(files))
	for _, f := range files {
		logger.Info("Discovered file", "path", f.Path)
	}

	builder := graph.NewBuilder(cfg,
		graph.WithLogger(logger),
		graph.WithExtractor(include.New(include.WithLogger(logger))))
	g, err := builder.Build(ctx, files)
	if err != nil {
		return "", err
	}

	base := cfg.Output
	if base == "" {
		namer := gitmeta.NewNamer(gitmeta.WithLogger(logger))
		base = filepath.Join(cfg.OutputDir, namer.AutoName(ctx, cfg.Root))
	}

	renderer := render.NewRenderer(render.WithLogger(logger))
	return renderer.Render(ctx, g, cfg.Format, base)
}
