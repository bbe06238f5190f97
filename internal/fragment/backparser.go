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

package fragment

import (
	"regexp"
	"strings"

	"github.com/cdepgen/cdepgen/internal/pathutil"
)

// ParseDependents recovers the dependency list a fragment was generated
// with, by turning template's |!dependents!| line into a capturing regex
// (with every other token substituted literally, the same way Render does)
// and matching it against the fragment's content. It reports ok=false if
// the template has no |!dependents!| line, or the fragment's content
// doesn't match it.
func ParseDependents(template, srcBasename, content string) (deps []string, ok bool) {
	name, ext := splitExt(srcBasename)

	substituted := template
	substituted = strings.ReplaceAll(substituted, tokenSrcFileBasename, srcBasename)
	substituted = strings.ReplaceAll(substituted, tokenSrcFileName, name)
	substituted = strings.ReplaceAll(substituted, tokenSrcFileExt, ext)

	var pattern string
	for _, line := range strings.Split(substituted, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, tokenDependents) {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		escaped = strings.ReplaceAll(escaped, regexp.QuoteMeta(tokenDependents), `([^\n\r]+)`)
		pattern = "^" + escaped + "$"
	}
	if pattern == "" {
		return nil, false
	}

	re, err := regexp.Compile("(?im)" + pattern)
	if err != nil {
		return nil, false
	}

	m := re.FindStringSubmatch(content)
	if m == nil {
		return nil, false
	}

	var result []string
	for _, item := range strings.Fields(strings.TrimSpace(m[1])) {
		result = append(result, pathutil.Normalize(item))
	}
	if len(result) == 0 {
		return nil, false
	}
	return result, true
}
