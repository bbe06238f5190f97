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

package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdepgen/cdepgen/internal/config"
	"github.com/cdepgen/cdepgen/internal/pathutil"
)

func setupProject(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "dependency_template.txt"),
		[]byte("|!src_file_name!|.o: |!dependents!|\n"), 0o644))
}

func newTestController(t *testing.T, root string) *Controller {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return New(root, cfg, "")
}

func TestCycle_EmitsFragmentForNewSource(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "b.h"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.h"), []byte(`int b;`), 0o644))

	c := newTestController(t, root)
	require.True(t, c.Cycle())

	content, err := os.ReadFile(filepath.Join(root, "a.d"))
	require.NoError(t, err)
	assert.Equal(t, "a.o: b.h\n", string(content))
}

func TestCycle_NoTemplateStopsScan(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`int a;`), 0o644))

	c := newTestController(t, root)
	assert.False(t, c.Cycle())
}

func TestCycle_NoopWithoutChange(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "b.h"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.h"), []byte(`int b;`), 0o644))

	c := newTestController(t, root)
	require.True(t, c.Cycle())

	fragPath := filepath.Join(root, "a.d")
	before, err := os.Stat(fragPath)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.True(t, c.Cycle())

	after, err := os.Stat(fragPath)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestCycle_RegeneratesAfterSourceChange(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`int a;`), 0o644))

	c := newTestController(t, root)
	require.True(t, c.Cycle())

	_, err := os.Stat(filepath.Join(root, "a.d"))
	assert.True(t, os.IsNotExist(err), "no dependencies yet, so no fragment should be emitted")

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.h"), []byte(`int b;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "b.h"`), 0o644))

	require.True(t, c.Cycle())
	content, err := os.ReadFile(filepath.Join(root, "a.d"))
	require.NoError(t, err)
	assert.Equal(t, "a.o: b.h\n", string(content))
}

func TestReconcile_RemovesOrphanedFragment(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "b.h"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.h"), []byte(`int b;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "z.cpp"), []byte(`#include "b.h"`), 0o644))

	c := newTestController(t, root)
	require.True(t, c.Cycle())
	require.FileExists(t, filepath.Join(root, "a.d"))

	require.NoError(t, os.Remove(filepath.Join(root, "a.cpp")))

	require.True(t, c.Cycle())
	_, err := os.Stat(filepath.Join(root, "a.d"))
	assert.True(t, os.IsNotExist(err))
}

func TestCycle_StrictMissingIncludeSkipsEmit(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "missing.h"`), 0o644))

	c := newTestController(t, root)
	c.Config.UseIncompleteList = false

	var logged strings.Builder
	c.Logf = func(format string, args ...interface{}) {
		fmt.Fprintf(&logged, format, args...)
	}

	require.True(t, c.Cycle())

	_, err := os.Stat(filepath.Join(root, "a.d"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, logged.String(), "missing.h")
	assert.Contains(t, logged.String(), "couldn't be generated")
}

func TestCycle_TolerantMissingIncludeEmitsEmptyList(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "missing.h"`), 0o644))

	c := newTestController(t, root)
	require.True(t, c.Config.UseIncompleteList)

	require.True(t, c.Cycle())

	content, err := os.ReadFile(filepath.Join(root, "a.d"))
	require.NoError(t, err)
	assert.Equal(t, "a.o: \n", string(content))
}

func TestCycle_FullPathsAndDependencyDir(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "inc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "inc", "b.h"), []byte(`int b;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "inc/b.h"`), 0o644))

	depDir := filepath.Join(root, "dep")
	require.NoError(t, os.MkdirAll(depDir, 0o755))

	c := newTestController(t, root)
	c.Config.DependencyPaths = true
	c.Config.DependencyDir = pathutil.Normalize(depDir)

	require.True(t, c.Cycle())

	content, err := os.ReadFile(filepath.Join(depDir, "a.d"))
	require.NoError(t, err)
	want := strings.ReplaceAll(pathutil.Normalize(filepath.Join(root, "inc", "b.h")), pathutil.Separator, "/")
	assert.Equal(t, "a.o: "+want+"\n", string(content))
}

func TestCycle_TemplateBumpReemits(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`#include "b.h"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.h"), []byte(`int b;`), 0o644))

	c := newTestController(t, root)
	require.True(t, c.Cycle())

	fragPath := filepath.Join(root, "a.d")
	before, err := os.Stat(fragPath)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	bumped := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(root, "dependency_template.txt"), bumped, bumped))

	require.True(t, c.Cycle())

	after, err := os.Stat(fragPath)
	require.NoError(t, err)
	assert.True(t, after.ModTime().After(before.ModTime()))

	content, err := os.ReadFile(fragPath)
	require.NoError(t, err)
	assert.Equal(t, "a.o: b.h\n", string(content))
}

func TestDeduceDependencyLists_SeedsFromExistingFragment(t *testing.T) {
	root := t.TempDir()
	setupProject(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte(`int a;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.d"), []byte("a.o: b.h c.h\n"), 0o644))

	c := newTestController(t, root)
	index := c.PopulateFiles()
	c.DeduceDependencyLists(index)

	require.Contains(t, c.dependencyList, "a.d")
	assert.Equal(t, []string{"b.h", "c.h"}, c.dependencyList["a.d"])
}
