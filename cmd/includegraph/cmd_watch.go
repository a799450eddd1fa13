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
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/IncludeGraph/services/depgraph/watch"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var watchDebounce time.Duration

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// watchCmd re-renders the graph whenever relevant files change.
var watchCmd = &cobra.Command{
	Use:   "watch [flags] [ROOT]",
	Short: "Re-render the include graph whenever sources change",
	Long: `Renders the include graph once, then watches the project tree and
re-renders after each batch of changes to headers or sources.

Blacklisted directories are not watched. Stop with Ctrl-C.

Examples:
  includegraph watch /path/to/project
  includegraph watch -f png -o build/deps .
  includegraph watch --debounce 2s /path/to/project`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"How long to wait after the last change before re-rendering")

	rootCmd.AddCommand(watchCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

// runWatch renders once, then keeps re-rendering until interrupted.
func runWatch(cmd *cobra.Command, args []string) {
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("Shutting down watch")
		cancel()
	}()

	rebuild := func(ctx context.Context) error {
		outPath, err := generate(ctx, cfg, logger)
		if err != nil {
			return err
		}
		fmt.Println(outPath)
		return nil
	}

	// Initial render; config and toolchain problems surface here.
	if err := rebuild(ctx); err != nil {
		logger.Error("Initial render failed", "error", err)
		os.Exit(ExitError)
	}

	watcher, err := watch.New(&cfg, rebuild,
		watch.WithDebounce(watchDebounce),
		watch.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to create watcher", "error", err)
		os.Exit(ExitError)
	}
	defer watcher.Close()

	if err := watcher.Run(ctx); err != nil {
		logger.Error("Watch failed", "error", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
