// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadFile reads the optional YAML overlay.
//
// A missing path ("" or a file that does not exist when the caller did
// not ask for one) is the caller's concern; LoadFile itself treats any
// read or parse failure as ErrBadConfigFile.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("%w: %v", ErrBadConfigFile, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("%w: %v", ErrBadConfigFile, err)
	}
	return fc, nil
}

// Resolve merges defaults, the YAML overlay, and the CLI options into
// the immutable run Config.
//
// Precedence is defaults < file < flags. Blacklist and group lists
// accumulate across layers (defaults always stay in force); scalar
// values take the most specific layer that set them. The root is
// validated to exist and be a directory, and the format against
// SupportedFormats, so every failure here is a configuration error
// reported before any scanning starts.
func Resolve(opts Options, file FileConfig) (Config, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %q: %v", ErrInvalidRoot, opts.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %q: %v", ErrInvalidRoot, opts.Root, err)
	}
	if !info.IsDir() {
		return Config{}, fmt.Errorf("%w: %q is not a directory", ErrInvalidRoot, opts.Root)
	}

	format := DefaultFormat
	if file.Format != "" {
		format = file.Format
	}
	if opts.Format != "" {
		format = opts.Format
	}
	if !slices.Contains(SupportedFormats, format) {
		return Config{}, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, format, SupportedFormats)
	}

	cfg := Config{
		Root:       root,
		Strict:     opts.Strict || file.Strict,
		Format:     format,
		Output:     firstNonEmpty(opts.Output, file.Output),
		OutputDir:  firstNonEmpty(file.OutputDir, DefaultOutputDir),
		HeaderExts: orDefault(file.Extensions.Header, DefaultHeaderExtensions),
		SourceExts: orDefault(file.Extensions.Source, DefaultSourceExtensions),
		OtherExts:  slices.Clone(file.Extensions.Other),
	}

	cfg.Blacklist = rootJoin(root, DefaultBlacklist, file.Blacklist, opts.Blacklist)
	cfg.Groups = rootJoin(root, file.Group, opts.Groups)

	return cfg, nil
}

// rootJoin anchors each relative entry at the root and cleans it.
// Already-absolute entries are kept as given. Order across layers is
// preserved; the group resolver depends on it (first match wins).
func rootJoin(root string, lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, item := range list {
			if item == "" {
				continue
			}
			if filepath.IsAbs(item) {
				out = append(out, filepath.Clean(item))
				continue
			}
			out = append(out, filepath.Join(root, item))
		}
	}
	return out
}

func orDefault(val, def []string) []string {
	if len(val) == 0 {
		return slices.Clone(def)
	}
	return slices.Clone(val)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
