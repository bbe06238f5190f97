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

// Package config loads, validates, and persists the scan controller's
// tunables: the program's built-in defaults, a project's saved overrides,
// and "config set" edits typed in at the shell.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cdepgen/cdepgen/internal/encoding"
	"github.com/cdepgen/cdepgen/internal/pathutil"
)

// Config is the full set of tunables read by the scan controller and the
// resolver. Field order and JSON tags mirror the keys a project's
// cdepgen_config.json file is expected to carry.
type Config struct {
	SleepTimerSeconds       int    `json:"sleep_timer"`
	DependencyPaths         bool   `json:"dependency_paths"`
	DependencyDir           string `json:"dependency_dir"`
	BuiltinLibs             bool   `json:"builtin_libs"`
	SearchPaths             string `json:"search_paths"`
	IncludeSource           bool   `json:"include_source"`
	UseIncompleteList       bool   `json:"use_incomplete_list"`
	ToolchainLibraryPattern string `json:"toolchain_library_pattern"`
}

// SleepTimer returns the configured inter-cycle sleep as a time.Duration.
func (c *Config) SleepTimer() time.Duration {
	return time.Duration(c.SleepTimerSeconds) * time.Second
}

// Default returns the program's built-in configuration, loaded from the
// embedded data/default_config.json. It also checks that the embedded
// data/config_validation.json parses; the default values themselves are not
// checked against those rules.
func Default() (*Config, error) {
	data, err := dataFS.ReadFile("data/default_config.json")
	if err != nil {
		return nil, fmt.Errorf("read default_config.json: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse default_config.json: %w", err)
	}
	if _, err := loadValidationRules(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a project's configuration file at path. If the file doesn't
// exist, it falls back to Default and reports that via usedDefault.
func Load(path string) (c *Config, usedDefault bool, err error) {
	if !pathutil.Exists(path) {
		c, err = Default()
		return c, true, err
	}

	c = &Config{}
	if err := encoding.LoadAndUnmarshalJSON(path, c); err != nil {
		return nil, false, fmt.Errorf("load project configuration: %w", err)
	}
	return c, false, nil
}

// Save writes c to path as indented JSON.
func Save(c *Config, path string) error {
	return encoding.MarshalAndSaveJSON(path, c)
}

// field describes one configuration key's string <-> struct-field bridge,
// used by Set and Show so "config set"/"config show" don't need a type
// switch per caller.
type field struct {
	get func(*Config) string
	set func(*Config, interface{})
}

var fields = map[string]field{
	"sleep_timer": {
		get: func(c *Config) string { return fmt.Sprintf("%d", c.SleepTimerSeconds) },
		set: func(c *Config, v interface{}) { c.SleepTimerSeconds = v.(int) },
	},
	"dependency_paths": {
		get: func(c *Config) string { return fmt.Sprintf("%t", c.DependencyPaths) },
		set: func(c *Config, v interface{}) { c.DependencyPaths = v.(bool) },
	},
	"dependency_dir": {
		get: func(c *Config) string { return c.DependencyDir },
		set: func(c *Config, v interface{}) { c.DependencyDir = v.(string) },
	},
	"builtin_libs": {
		get: func(c *Config) string { return fmt.Sprintf("%t", c.BuiltinLibs) },
		set: func(c *Config, v interface{}) { c.BuiltinLibs = v.(bool) },
	},
	"search_paths": {
		get: func(c *Config) string { return c.SearchPaths },
		set: func(c *Config, v interface{}) { c.SearchPaths = v.(string) },
	},
	"include_source": {
		get: func(c *Config) string { return fmt.Sprintf("%t", c.IncludeSource) },
		set: func(c *Config, v interface{}) { c.IncludeSource = v.(bool) },
	},
	"use_incomplete_list": {
		get: func(c *Config) string { return fmt.Sprintf("%t", c.UseIncompleteList) },
		set: func(c *Config, v interface{}) { c.UseIncompleteList = v.(bool) },
	},
	"toolchain_library_pattern": {
		get: func(c *Config) string { return c.ToolchainLibraryPattern },
		set: func(c *Config, v interface{}) { c.ToolchainLibraryPattern = v.(string) },
	},
}

// Keys returns every configuration key name, in declaration order.
func Keys() []string {
	return []string{
		"sleep_timer", "dependency_paths", "dependency_dir", "builtin_libs",
		"search_paths", "include_source", "use_incomplete_list", "toolchain_library_pattern",
	}
}

// Show returns the string representation of every configured value,
// keyed by config key name.
func Show(c *Config) map[string]string {
	out := make(map[string]string, len(fields))
	for key, f := range fields {
		out[key] = f.get(c)
	}
	return out
}

// Set parses value according to key's entry in config_validation.json and,
// if it validates, assigns it to c. On failure c is left unmodified.
func Set(c *Config, key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("the configuration %q doesn't exist", key)
	}

	rules, err := loadValidationRules()
	if err != nil {
		return err
	}
	r, ok := rules[key]
	if !ok {
		return fmt.Errorf("the configuration %q doesn't exist", key)
	}

	converted, err := r.validateString(key, value)
	if err != nil {
		return err
	}

	f.set(c, converted)
	return nil
}
