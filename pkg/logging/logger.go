// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for IncludeGraph components.
//
// The package wraps Go's standard library slog with a small, opinionated
// surface suited to a short-lived CLI tool:
//
//   - Output goes to stderr (Unix convention: stdout is for results).
//   - Text format by default, JSON with Config.JSON for machine parsing.
//   - Quiet mode discards everything, for callers that only want the
//     final artifact path on stdout.
//
// # Basic Usage
//
//	logger := logging.Default()
//	logger.Info("scan complete", "files", len(entries))
//	logger.Error("render failed", "error", err)
//
// For a configured logger:
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    Service: "includegraph",
//	})
//
// # Log Levels
//
// Four levels are supported, matching slog conventions:
//
//   - Debug: development troubleshooting, verbose output
//   - Info: normal operations (scan started, graph built)
//   - Warn: recoverable issues (undecodable file, fallback name)
//   - Error: operation failures (but the process continues)
//
// # Thread Safety
//
// Logger is safe for concurrent use; the underlying slog.Logger is
// thread-safe and the wrapper holds no mutable state after creation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity levels.
//
// Levels follow the slog convention and are ordered by severity:
// Debug < Info < Warn < Error. Setting a minimum level filters out
// all logs below that level.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for potentially problematic situations the run
	// survives, such as a file that could not be decoded.
	LevelWarn

	// LevelError is for operation failures.
	LevelError
)

// String returns the human-readable name of the level.
//
// Returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel converts our Level to slog.Level.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a user-supplied level name to a Level.
//
// Matching is case-insensitive and accepts the four canonical names
// ("debug", "info", "warn", "error"). Unknown names return LevelInfo
// and a non-nil error so CLI layers can report the bad flag value.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the Logger behavior.
//
// All fields have sensible defaults. A zero-value Config creates a
// logger that writes Info+ messages to stderr in text format.
type Config struct {
	// Level sets the minimum log level.
	//
	// Messages below this level are discarded.
	// Default: LevelInfo
	Level Level

	// Service identifies the component generating logs.
	//
	// When set, it is included in every record as the "service"
	// attribute. Default: "" (no service attribute)
	Service string

	// JSON enables JSON output format.
	//
	// When true, records are JSON objects; when false, human-readable
	// text. Default: false
	JSON bool

	// Quiet discards all output.
	//
	// Used when the caller wants nothing but the final result on
	// stdout. Default: false
	Quiet bool

	// Writer overrides the output destination.
	//
	// Intended for tests. Default: nil (os.Stderr)
	Writer io.Writer
}

// =============================================================================
// Logger
// =============================================================================

// Logger wraps slog.Logger with the IncludeGraph configuration surface.
//
// Create one with New or use the process-wide Default. The zero value
// is not usable; both constructors always return a non-nil Logger.
type Logger struct {
	slog *slog.Logger
	cfg  Config
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// New creates a Logger from the given configuration.
//
// The returned Logger writes to cfg.Writer (stderr when nil) unless
// cfg.Quiet is set, in which case every record is discarded.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stderr
	if cfg.Writer != nil {
		w = cfg.Writer
	}
	if cfg.Quiet {
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	if cfg.Service != "" {
		l = l.With("service", cfg.Service)
	}

	return &Logger{slog: l, cfg: cfg}
}

// Default returns the process-wide fallback logger.
//
// It writes Info+ text records to stderr. Components that are not
// handed a Logger explicitly should use this rather than nil-checking.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(Config{})
	})
	return defaultLogger
}

// Debug logs at debug level with alternating key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs at info level with alternating key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs at warn level with alternating key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs at error level with alternating key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a child Logger that includes the given attributes on
// every record. The receiver is not modified.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), cfg: l.cfg}
}

// Slog exposes the underlying slog.Logger for libraries that want the
// standard interface.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}
