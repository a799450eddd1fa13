// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package include extracts include targets from source text.
//
// Extraction is purely syntactic: any line containing an include
// directive contributes a target, whether or not a compiler would see
// it (commented-out and macro-guarded directives count). The tool maps
// textual coupling, not preprocessor truth.
package include

import (
	"io"
	"os"
	"regexp"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/AleutianAI/IncludeGraph/pkg/logging"
	"github.com/AleutianAI/IncludeGraph/services/depgraph/scan"
)

// includePattern recognizes the two directive forms:
//
//	#include "name"
//	#include <name>
//
// The directive keyword must be followed by whitespace. The capture
// stops at the first closing delimiter of either kind.
var includePattern = regexp.MustCompile(`#include\s+["<]([^">]*)[">]`)

// Extractor reads files and reports the names they include.
//
// Reading is lenient by contract: malformed byte sequences are
// substituted during decode, and a file that cannot be read at all is
// treated as having zero includes. Extraction never fails a run.
type Extractor struct {
	logger *logging.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. Defaults to logging.Default().
func WithLogger(l *logging.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: logging.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the include targets referenced by the file at path,
// reduced to their base identity (file name minus final extension) so
// they can be matched against node ids.
//
// Targets are returned in the order found; duplicates are preserved,
// since duplicate includes become parallel edges unless the run merges
// multi-edges. A missing, unreadable, or undecodable file yields an
// empty result, never an error.
func (e *Extractor) Extract(path string) []string {
	text, ok := e.readLenient(path)
	if !ok {
		return nil
	}

	matches := includePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	targets := make([]string, 0, len(matches))
	for _, m := range matches {
		targets = append(targets, scan.BaseName(m[1]))
	}
	return targets
}

// readLenient reads the whole file through a UTF-8 decoder that
// substitutes invalid sequences instead of failing.
func (e *Extractor) readLenient(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("skipping unreadable file", "path", path, "error", err)
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.UTF8.NewDecoder()))
	if err != nil {
		e.logger.Warn("skipping undecodable file", "path", path, "error", err)
		return "", false
	}
	return string(data), true
}
