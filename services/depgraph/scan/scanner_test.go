// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/IncludeGraph/services/depgraph/config"
)

// writeFile creates rel (with any parent directories) under root.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testConfig resolves a Config rooted at dir with extra options.
func testConfig(t *testing.T, dir string, opts config.Options) config.Config {
	t.Helper()
	opts.Root = dir
	cfg, err := config.Resolve(opts, config.FileConfig{})
	require.NoError(t, err)
	return cfg
}

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"foo.h", "foo"},
		{"foo.hpp", "foo"},
		{"dir/sub/name.cpp", "name"},
		{"archive.tar.gz", "archive.tar"},
		{"README", "README"},
		{"trailingdot.", "trailingdot"},
	}

	for _, tt := range tests {
		if got := BaseName(tt.path); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	h := writeFile(t, root, "a.h", "")
	c := writeFile(t, root, "src/b.c", "")
	hpp := writeFile(t, root, "src/deep/nested/c.hpp", "")
	writeFile(t, root, "notes.txt", "")
	writeFile(t, root, "src/README.md", "")

	s := New(testConfig(t, root, config.Options{}))
	files, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{h, c, hpp}, paths(files))

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path), "path should be absolute: %s", f.Path)
		assert.Equal(t, filepath.Dir(f.Path), f.Dir)
	}
}

func TestScanner_Scan_FileEntryFields(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/widget.hpp", "")

	s := New(testConfig(t, root, config.Options{}))
	files, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "widget", files[0].Base)
	assert.Equal(t, ".hpp", files[0].Ext)
	assert.Equal(t, filepath.Join(root, "sub"), files[0].Dir)
}

func TestScanner_Scan_BlacklistPrunesSubtree(t *testing.T) {
	root := t.TempDir()
	kept := writeFile(t, root, "main.c", "")
	writeFile(t, root, "build/gen.h", "")
	writeFile(t, root, "build/deep/also_gen.h", "")

	s := New(testConfig(t, root, config.Options{Blacklist: []string{"build"}}))
	files, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{kept}, paths(files))
}

func TestScanner_Scan_DefaultBlacklistApplies(t *testing.T) {
	root := t.TempDir()
	kept := writeFile(t, root, "main.c", "")
	writeFile(t, root, ".git/objects/fake.h", "")
	writeFile(t, root, ".vscode/tasks.c", "")

	s := New(testConfig(t, root, config.Options{}))
	files, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{kept}, paths(files))
}

func TestScanner_Scan_BlacklistMatchesWholePathOnly(t *testing.T) {
	root := t.TempDir()
	// Excluding "build" must not exclude "src/build" (path equality,
	// not name matching).
	inner := writeFile(t, root, "src/build/kept.h", "")

	s := New(testConfig(t, root, config.Options{Blacklist: []string{"build"}}))
	files, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Contains(t, paths(files), inner)
}

func TestScanner_Scan_InvalidRoot(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		root := t.TempDir()
		cfg := testConfig(t, root, config.Options{})
		require.NoError(t, os.RemoveAll(root))

		_, err := New(cfg).Scan(context.Background())
		assert.ErrorIs(t, err, ErrInvalidRoot)
	})

	t.Run("not a directory", func(t *testing.T) {
		root := t.TempDir()
		cfg := testConfig(t, root, config.Options{})
		file := writeFile(t, root, "f.c", "")
		cfgFile := cfg
		cfgFile.Root = file

		_, err := New(cfgFile).Scan(context.Background())
		assert.ErrorIs(t, err, ErrInvalidRoot)
	})
}

func TestScanner_Scan_Cancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.h", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t, root, config.Options{})).Scan(ctx)
	assert.ErrorIs(t, err, ErrTraversal)
}

func TestScanner_Scan_SymlinksSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	root := t.TempDir()
	target := writeFile(t, root, "real.h", "")
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link.h")))

	s := New(testConfig(t, root, config.Options{}))
	files, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{target}, paths(files))
}

func TestScanner_Scan_EmptyTree(t *testing.T) {
	root := t.TempDir()

	files, err := New(testConfig(t, root, config.Options{})).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}
