// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config builds the immutable per-run configuration for the
// dependency graph engine.
//
// A run's configuration is assembled exactly once, by Resolve, from
// three layers in increasing precedence: built-in defaults, an optional
// YAML file, and CLI flags. After Resolve returns, nothing mutates the
// Config; the scanner, resolver, and builder all receive it by value.
package config

import "errors"

// Built-in defaults. These match the exclusions and extension classes
// the tool has always shipped with.
var (
	// DefaultBlacklist lists directory names excluded from every scan,
	// relative to the scan root.
	DefaultBlacklist = []string{".git", ".settings", ".vscode"}

	// DefaultHeaderExtensions are the extensions classified as headers.
	DefaultHeaderExtensions = []string{".h", ".hpp"}

	// DefaultSourceExtensions are the extensions classified as sources.
	DefaultSourceExtensions = []string{".c", ".cc", ".cpp"}

	// SupportedFormats are the output formats the rendering backend
	// accepts. Format validation happens before any filesystem work.
	SupportedFormats = []string{"bmp", "gif", "jpg", "png", "pdf", "svg"}
)

const (
	// DefaultFormat is used when neither file nor flags pick one.
	DefaultFormat = "svg"

	// DefaultOutputDir receives auto-named output when no explicit
	// output path is given.
	DefaultOutputDir = "img"
)

var (
	// ErrInvalidRoot indicates the scan root does not exist or is not
	// a directory.
	ErrInvalidRoot = errors.New("invalid scan root")

	// ErrUnsupportedFormat indicates a format outside SupportedFormats.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrBadConfigFile indicates the YAML overlay could not be read or
	// parsed.
	ErrBadConfigFile = errors.New("invalid config file")
)

// Class is the display classification of a file extension. The builder
// colors each edge by the including file's class.
type Class int

const (
	// ClassOther covers whitelisted extensions outside the header and
	// source lists; edges from such files use the neutral color.
	ClassOther Class = iota

	// ClassHeader covers header-class extensions (.h, .hpp by default).
	ClassHeader

	// ClassSource covers source-class extensions (.c, .cc, .cpp by default).
	ClassSource
)

// String returns the class name for logs and tests.
func (c Class) String() string {
	switch c {
	case ClassHeader:
		return "header"
	case ClassSource:
		return "source"
	case ClassOther:
		return "other"
	default:
		return "unknown"
	}
}

// Options carries the raw CLI inputs for one run. Zero values mean
// "not set" except Strict, which is a plain toggle.
type Options struct {
	// Root is the directory to scan. Absolute or relative.
	Root string

	// Blacklist holds extra excluded directories, relative to Root.
	Blacklist []string

	// Groups holds directories to collapse, relative to Root.
	Groups []string

	// Strict merges duplicate multi-edges in the rendered output.
	Strict bool

	// Format is the output image format. Empty means unset.
	Format string

	// Output is an explicit extension-less output base path. Empty
	// means auto-name into the output directory.
	Output string
}

// FileConfig mirrors the optional YAML overlay.
//
// List-valued keys append to the defaults (blacklist, group); the
// extension classes replace the defaults when non-empty.
type FileConfig struct {
	Blacklist  []string       `yaml:"blacklist"`
	Group      []string       `yaml:"group"`
	Format     string         `yaml:"format"`
	Strict     bool           `yaml:"strict"`
	Output     string         `yaml:"output"`
	OutputDir  string         `yaml:"output_dir"`
	Extensions ExtensionsFile `yaml:"extensions"`
}

// ExtensionsFile tunes the extension classes from the YAML overlay.
type ExtensionsFile struct {
	Header []string `yaml:"header"`
	Source []string `yaml:"source"`
	Other  []string `yaml:"other"`
}

// Config is the resolved, immutable configuration for one run.
//
// All paths are absolute and cleaned. Blacklist entries are compared
// against directories by path equality; Groups are literal path
// prefixes, so a group "lib" also captures a sibling "lib2".
type Config struct {
	Root      string
	Blacklist []string
	Groups    []string
	Strict    bool
	Format    string
	Output    string
	OutputDir string

	HeaderExts []string
	SourceExts []string
	OtherExts  []string
}

// Whitelist returns the union of the extension classes: the set of
// extensions the scanner discovers. Matching is case-sensitive.
func (c Config) Whitelist() []string {
	out := make([]string, 0, len(c.HeaderExts)+len(c.SourceExts)+len(c.OtherExts))
	out = append(out, c.HeaderExts...)
	out = append(out, c.SourceExts...)
	out = append(out, c.OtherExts...)
	return out
}

// ClassOf classifies an extension. Extensions in neither configured
// class fall through to ClassOther.
func (c Config) ClassOf(ext string) Class {
	for _, e := range c.HeaderExts {
		if e == ext {
			return ClassHeader
		}
	}
	for _, e := range c.SourceExts {
		if e == ext {
			return ClassSource
		}
	}
	return ClassOther
}
