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

package shell

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdepgen/cdepgen/internal/config"
)

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)

	var out bytes.Buffer
	s := &Shell{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "cdepgen_config.json"),
		Out:        &out,
		In:         strings.NewReader(input),
	}
	return s, &out
}

func TestRun_ReturnsStartScan(t *testing.T) {
	s, _ := newTestShell(t, "run\n")
	assert.Equal(t, StartScan, s.Run())
}

func TestRun_ReturnsTerminateOnExit(t *testing.T) {
	s, _ := newTestShell(t, "exit\n")
	assert.Equal(t, Terminate, s.Run())
}

func TestRun_TerminatesOnEOF(t *testing.T) {
	s, _ := newTestShell(t, "")
	assert.Equal(t, Terminate, s.Run())
}

func TestRun_UnknownCommandContinues(t *testing.T) {
	s, out := newTestShell(t, "bogus\nexit\n")
	assert.Equal(t, Terminate, s.Run())
	assert.Contains(t, out.String(), "is not valid")
}

func TestConfigSetThenShow(t *testing.T) {
	s, out := newTestShell(t, "config set builtin_libs=true\nconfig show\nexit\n")
	assert.Equal(t, Terminate, s.Run())
	assert.Contains(t, out.String(), "successfully changed")
	assert.Contains(t, out.String(), "builtin_libs = true")
}

func TestConfigSaveAndLoad(t *testing.T) {
	s, out := newTestShell(t, "config set sleep_timer=42\nconfig save\nconfig default\nconfig load\nexit\n")
	assert.Equal(t, Terminate, s.Run())
	assert.Contains(t, out.String(), "successfully saved")
	assert.Equal(t, 42, s.Config.SleepTimerSeconds)
}
