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

import "os"

// ReadText reads the file at p and returns its content as UTF-8 text. It
// returns ok=false instead of an error so that callers - the resolver
// scanning an unreadable header, the back-parser reading a stale fragment -
// can treat a read failure as "absent" rather than fatal.
func ReadText(p string) (content string, ok bool) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// WriteText (over)writes p with content, creating the file if necessary.
// It reports whether the write succeeded; a failure is never fatal to the
// caller, only to that one fragment this cycle.
func WriteText(p string, content string) bool {
	return os.WriteFile(p, []byte(content), 0o644) == nil
}

// Exists reports whether p names a regular file.
func Exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether p names a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// ModTime returns the modification time of p as Unix nanoseconds, and
// whether p could be stat'd at all. Resolution is compared with <= / > so
// the unit doesn't matter as long as it's consistent.
func ModTime(p string) (nanos int64, ok bool) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, false
	}
	return info.ModTime().UnixNano(), true
}
