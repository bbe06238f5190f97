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

// Package fragment renders and later re-derives the per-source-file
// dependency fragments written alongside a project's build rules: a small
// text file built by substituting tokens into a user-supplied template, and
// parsed back by turning that same template into a capturing regular
// expression.
package fragment

import (
	"strings"

	"github.com/cdepgen/cdepgen/internal/pathutil"
)

const (
	tokenDependents      = "|!dependents!|"
	tokenSrcFileBasename = "|!src_file_basename!|"
	tokenSrcFileName     = "|!src_file_name!|"
	tokenSrcFileExt      = "|!src_file_ext!|"
)

// BuildList turns an ordered list of absolute dependency paths into the
// whitespace-separated string substituted for |!dependents!| in a fragment.
// When asPaths is true each entry keeps its full path, rendered with "/" as
// the separator (the conventional Makefile directory separator); otherwise
// only each entry's basename is kept.
func BuildList(deps []string, asPaths bool) string {
	if !asPaths {
		var b strings.Builder
		for _, d := range deps {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(pathutil.Basename(d))
		}
		return b.String()
	}

	rendered := make([]string, len(deps))
	for i, d := range deps {
		rendered[i] = strings.ReplaceAll(d, pathutil.Separator, "/")
	}
	return strings.TrimSpace(strings.Join(rendered, " "))
}

// Render substitutes the dependency-list string and the source file's name
// parts into template, returning "" if template is empty (callers treat
// that as "nothing to write").
func Render(template, srcBasename, dependentsStr string) string {
	if template == "" {
		return ""
	}

	name, ext := splitExt(srcBasename)

	out := template
	out = strings.ReplaceAll(out, tokenDependents, dependentsStr)
	out = strings.ReplaceAll(out, tokenSrcFileBasename, srcBasename)
	out = strings.ReplaceAll(out, tokenSrcFileName, name)
	out = strings.ReplaceAll(out, tokenSrcFileExt, ext)
	return out
}

// Write renders template for srcBasename/dependentsStr and writes it to
// outputDir/srcName.ext. It returns false if the template produced no
// content or the file could not be written.
func Write(outputDir, template, srcBasename, dependentsStr, fragmentExt string) bool {
	rendered := Render(template, srcBasename, dependentsStr)
	if rendered == "" {
		return false
	}

	name, _ := splitExt(srcBasename)
	path := pathutil.Join(outputDir, name+"."+fragmentExt)
	return pathutil.WriteText(path, rendered)
}

func splitExt(basename string) (name, ext string) {
	if idx := strings.LastIndex(basename, "."); idx >= 0 {
		return basename[:idx], basename[idx+1:]
	}
	return basename, ""
}
