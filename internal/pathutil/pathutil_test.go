// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:/proj/src/a.cpp`, `C:\proj\src\a.cpp`},
		{`C:\proj\src\`, `C:\proj\src`},
		{`\inc\b.h`, `inc\b.h`},
		{`inc/b.h`, `inc\b.h`},
		{`a.cpp`, `a.cpp`},
	}
	for _, tc := range tests {
		got := Normalize(tc.in)
		assert.Equal(t, tc.want, got, "Normalize(%q)", tc.in)
		assert.Equal(t, got, Normalize(got), "Normalize must be idempotent for %q", tc.in)
		assert.NotContains(t, got, "/")
	}
}

func TestBasenameDirname(t *testing.T) {
	assert.Equal(t, "a.cpp", Basename(`C:\proj\src\a.cpp`))
	assert.Equal(t, `C:\proj\src`, Dirname(`C:\proj\src\a.cpp`))
	assert.Equal(t, "a.cpp", Basename("a.cpp"))
	assert.Equal(t, "", Dirname("a.cpp"))
}

func TestStemAndExt(t *testing.T) {
	assert.Equal(t, "a", Stem(`C:\proj\a.cpp`))
	assert.Equal(t, "cpp", Ext(`C:\proj\a.cpp`))
	assert.Equal(t, "noext", Stem("noext"))
	assert.Equal(t, "", Ext("noext"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, `C:\proj\inc\b.h`, Join(`C:\proj`, "inc", "b.h"))
	assert.Equal(t, `C:\proj\inc\b.h`, Join(`C:\proj`, `inc/b.h`))
}

func TestIsAbs(t *testing.T) {
	assert.True(t, IsAbs(`C:\proj\a.cpp`))
	assert.True(t, IsAbs(`d:\x`))
	assert.False(t, IsAbs(`inc\b.h`))
	assert.False(t, IsAbs(`a.cpp`))
}

func TestFind_LiteralsAndWildcards(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.h"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dependency_template.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644))

	found := Find([]string{"dependency_template.txt", "*.cpp", "*.h"}, root)

	assert.Len(t, found, 3)
	assert.Contains(t, found, "a.cpp")
	assert.Contains(t, found, "b.h")
	assert.Contains(t, found, "dependency_template.txt")
	assert.NotContains(t, found, "notes.txt")
	for _, p := range found {
		assert.NotContains(t, p, "/")
	}
}

func TestFind_LiteralConsumedOnFirstMatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dependency_template.txt"), []byte("top"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "deep", "dependency_template.txt"), []byte("deep"), 0o644))

	found := Find([]string{"dependency_template.txt"}, root)

	require.Contains(t, found, "dependency_template.txt")
	assert.False(t, strings.Contains(found["dependency_template.txt"], "deep"))
}

func TestReadWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.True(t, WriteText(path, "hello"))

	content, ok := ReadText(path)
	require.True(t, ok)
	assert.Equal(t, "hello", content)

	_, ok = ReadText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.False(t, ok)
}
