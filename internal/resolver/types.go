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

// Package resolver implements the include-graph crawler: given one source
// file it produces the transitive closure of its #include dependencies,
// backed by a multi-tier cache (known paths, per-file crawl results, crawl
// mtimes) that survives across scan cycles.
package resolver

import "github.com/cdepgen/cdepgen/internal/collections"

// ProjectIndex is the basename-keyed view of a project tree that the scan
// controller rebuilds every cycle and the resolver borrows read-only.
type ProjectIndex struct {
	// Source maps a translation-unit basename ("foo.cpp") to its absolute path.
	Source map[string]string
	// Relevant maps a header basename ("foo.h") to its absolute path.
	Relevant map[string]string
	// Dependency maps a fragment basename ("foo.d") to its absolute path.
	Dependency map[string]string
	// Template is the absolute path to dependency_template.txt, or "" if missing.
	Template string
}

// Config carries the subset of program configuration the resolver needs.
// Values are already normalized to Go types by the config package - the
// resolver never parses strings.
type Config struct {
	// BuiltinLibs enables <...> includes and toolchain search paths.
	BuiltinLibs bool
	// IncludeSource controls whether the source file is emitted as the
	// first entry of its own dependency list.
	IncludeSource bool
}

// FailedFiles maps an absolute path to the set of #include tokens that
// could not be resolved for it. An empty set means the file itself could
// not be read.
type FailedFiles map[string]collections.Set[string]

func (f FailedFiles) add(path string, tokens ...string) {
	set, ok := f[path]
	if !ok {
		set = make(collections.Set[string])
		f[path] = set
	}
	set.AddSlice(tokens)
}
