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
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Find performs a depth-first walk of root looking for files matching
// patterns, which may be literal basenames ("dependency_template.txt") or
// "*.ext" wildcards matched with doublestar. A literal pattern is consumed
// the first time it is matched - later files with the same basename,
// elsewhere in the tree, are no longer found - while a wildcard pattern
// stays active for the whole walk, matching every file with that extension.
// The result maps each matched basename to its normalized absolute path.
func Find(patterns []string, root string) map[string]string {
	literals := make(map[string]struct{})
	var wildcards []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "*.") {
			wildcards = append(wildcards, p)
		} else {
			literals[p] = struct{}{}
		}
	}
	result := make(map[string]string)
	walk(literals, wildcards, result, root)
	return result
}

func walk(literals map[string]struct{}, wildcards []string, result map[string]string, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		if _, isLiteral := literals[name]; isLiteral {
			result[name] = Normalize(Join(dir, name))
			delete(literals, name)
			continue
		}
		for _, pattern := range wildcards {
			if MatchGlob(pattern, name) {
				result[name] = Normalize(Join(dir, name))
				break
			}
		}
	}

	if len(literals) == 0 && len(wildcards) == 0 {
		return
	}
	for _, sub := range subdirs {
		walk(literals, wildcards, result, Join(dir, sub))
		if len(literals) == 0 && len(wildcards) == 0 {
			return
		}
	}
}

// MatchGlob reports whether a basename matches a doublestar glob pattern.
// Find uses it for its wildcard patterns; it is exported so a single
// basename can be tested against a pattern without a full tree walk.
func MatchGlob(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
