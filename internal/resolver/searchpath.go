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

package resolver

import (
	"os"
	"regexp"
	"strings"

	"github.com/cdepgen/cdepgen/internal/pathutil"
)

// DefaultToolchainLibraryPattern is the regex used to pick toolchain
// library directories out of the process PATH when BuiltinLibs is enabled.
// It only recognizes mingw installations; Config.ToolchainLibraryPattern
// overrides it for other toolchains.
const DefaultToolchainLibraryPattern = `(([^\\/;]+[\\/])+mingw([\\/][^\\/;]+)?)`

// BuildSearchPaths constructs the ordered list of directories the resolver
// consults, in order, when a #include can't be resolved relative to the
// including file or the project index: the project root, each configured
// search path (in declared order), and - if builtinLibs is set - every
// toolchain library directory discoverable in the process PATH via
// toolchainPattern.
//
// Slot 0 is always the project root.
func BuildSearchPaths(projectRoot, rawSearchPaths string, builtinLibs bool, toolchainPattern string) []string {
	paths := []string{pathutil.Normalize(projectRoot)}

	for _, p := range strings.Split(rawSearchPaths, ";") {
		if p == "" {
			continue
		}
		paths = append(paths, pathutil.Normalize(p))
	}

	if builtinLibs {
		if toolchainPattern == "" {
			toolchainPattern = DefaultToolchainLibraryPattern
		}
		if pathEnv, ok := os.LookupEnv("PATH"); ok {
			if re, err := regexp.Compile("(?i)" + toolchainPattern); err == nil {
				for _, match := range re.FindAllStringSubmatch(pathEnv, -1) {
					paths = append(paths, pathutil.Normalize(match[1]))
				}
			}
		}
	}

	return paths
}
