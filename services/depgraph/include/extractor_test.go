// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.c")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "quoted form",
			content: `#include "foo.h"`,
			want:    []string{"foo"},
		},
		{
			name:    "angle form",
			content: `#include <vector>`,
			want:    []string{"vector"},
		},
		{
			name: "both forms mixed",
			content: `#include <cstdio>
#include "util.hpp"
int main() { return 0; }`,
			want: []string{"cstdio", "util"},
		},
		{
			name:    "path-qualified target reduces to base name",
			content: `#include "sys/io.h"`,
			want:    []string{"io"},
		},
		{
			name: "duplicates preserved in order",
			content: `#include "a.h"
#include "b.h"
#include "a.h"`,
			want: []string{"a", "b", "a"},
		},
		{
			name:    "tab separated",
			content: "#include\t\"spaced.h\"",
			want:    []string{"spaced"},
		},
		{
			name: "commented directive still counts",
			content: `// #include "dead.h"
int x;`,
			want: []string{"dead"},
		},
		{
			name:    "no whitespace after keyword is not a directive",
			content: `#include"tight.h"`,
			want:    nil,
		},
		{
			name:    "zero includes",
			content: "int main() { return 0; }\n",
			want:    nil,
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, []byte(tt.content))
			assert.Equal(t, tt.want, e.Extract(path))
		})
	}
}

func TestExtractor_Extract_InvalidBytesTolerated(t *testing.T) {
	// Valid directives surrounded by raw bytes that are not UTF-8.
	content := append([]byte{0xff, 0xfe, 0x80}, []byte("\n#include \"kept.h\"\n")...)
	content = append(content, 0xc3, 0x28) // truncated multibyte sequence

	path := writeSource(t, content)

	got := New().Extract(path)
	assert.Equal(t, []string{"kept"}, got)
}

func TestExtractor_Extract_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.c")

	got := New().Extract(path)
	assert.Nil(t, got)
}
