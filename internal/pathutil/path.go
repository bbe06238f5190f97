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

// Package pathutil provides the path normalization, directory discovery and
// text I/O primitives shared by the include resolver, the search-path
// builder and the scan controller.
package pathutil

import "strings"

// Separator is the canonical path separator used by every normalized Path
// in this repository, regardless of host OS. Downstream consumers (the
// fragment writer's path projection, the back-parser's regex escaping)
// depend on paths using this separator consistently, so it is kept fixed
// rather than switched per host.
const Separator = `\`

// Normalize rewrites p into the single canonical form used throughout this
// repository: every "/" becomes "\", and at most one leading and one
// trailing "\" are stripped. Normalize(Normalize(p)) == Normalize(p) holds
// unless p starts or ends with two or more separators: only one is stripped
// per call, so a second call strips the next one.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "/", Separator)
	p = strings.TrimPrefix(p, Separator)
	p = strings.TrimSuffix(p, Separator)
	return p
}

// Basename returns the final path component of a normalized path.
func Basename(p string) string {
	if idx := strings.LastIndex(p, Separator); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// Dirname returns the directory portion of a normalized path, or "" if p has
// no separator.
func Dirname(p string) string {
	if idx := strings.LastIndex(p, Separator); idx >= 0 {
		return p[:idx]
	}
	return ""
}

// Join joins normalized path components with Separator, normalizing the
// result.
func Join(parts ...string) string {
	return Normalize(strings.Join(parts, Separator))
}

// Ext returns the file extension (without the leading dot) of a normalized
// path's basename, or "" if there is none.
func Ext(p string) string {
	base := Basename(p)
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return base[idx+1:]
	}
	return ""
}

// Stem returns the basename of p with its extension (if any) removed.
func Stem(p string) string {
	base := Basename(p)
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return base[:idx]
	}
	return base
}

// IsAbs reports whether a normalized path is an absolute Windows-style path,
// e.g. "C:\proj\a.cpp". This is the same shape the resolver uses to
// distinguish an absolute #include path from a relative one.
func IsAbs(p string) bool {
	return len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' && p[2] == Separator[0]
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
