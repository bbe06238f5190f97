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
	"regexp"
	"strings"

	"github.com/cdepgen/cdepgen/internal/collections"
	"github.com/cdepgen/cdepgen/internal/pathutil"
)

var (
	includeWithSystem = regexp.MustCompile(`(?im)#include\s+[<"]([^<>"]+)[>"]`)
	includeQuotedOnly = regexp.MustCompile(`(?im)#include\s+"([^<>"]+)"`)
)

func includeRegex(builtinLibs bool) *regexp.Regexp {
	if builtinLibs {
		return includeWithSystem
	}
	return includeQuotedOnly
}

// Resolver crawls the #include graph of a source file, one file at a time,
// and memoizes its results across runs. A Resolver owns its cache maps and
// its SearchPaths exclusively; nothing outside this package mutates them.
type Resolver struct {
	searchPaths []string

	knownPaths      map[string]string
	fileKnownDeps   map[string]collections.Set[string]
	fileUnknownDeps map[string]collections.Set[string]
	crawlMtime      map[string]int64
}

// New returns a Resolver with empty caches and no search paths configured.
func New() *Resolver {
	r := &Resolver{}
	r.ClearCaches()
	return r
}

// SetSearchPaths replaces the resolver's search path list. Per the data
// model, this invalidates every cached resolution: a path built from the
// old search paths might no longer be the right one.
func (r *Resolver) SetSearchPaths(paths []string) {
	r.searchPaths = paths
	r.ClearCaches()
}

// ClearCaches empties KnownPaths, FileKnownDeps, FileUnknownDeps and
// CrawlMtime.
func (r *Resolver) ClearCaches() {
	r.knownPaths = make(map[string]string)
	r.fileKnownDeps = make(map[string]collections.Set[string])
	r.fileUnknownDeps = make(map[string]collections.Set[string])
	r.crawlMtime = make(map[string]int64)
}

// Resolve produces the ordered list of absolute dependency paths for
// srcPath, along with any #include tokens or files that could not be
// resolved. Ordering follows crawl completion: a file is appended when it
// is popped off the work queue, so direct includes precede transitive
// ones.
func (r *Resolver) Resolve(srcPath string, index ProjectIndex, cfg Config) ([]string, FailedFiles) {
	srcPath = pathutil.Normalize(srcPath)
	failed := make(FailedFiles)
	pending := make(map[string]collections.Set[string])
	foundBasenames := make(collections.Set[string])
	queue := []string{srcPath}
	var output []string
	firstPop := true
	re := includeRegex(cfg.BuiltinLibs)

	for len(queue) > 0 || len(pending) > 0 {
		if len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]

			if !pathutil.Exists(f) {
				failed.add(f)
				continue
			}

			base := pathutil.Basename(f)
			deps, reused := r.reuseCachedDeps(f, base, failed)
			if !reused {
				content, ok := pathutil.ReadText(f)
				if !ok {
					// An unreadable source is a failure; an unreadable
					// header is just absent from the output.
					if firstPop {
						failed.add(f)
					}
					continue
				}
				deps = r.crawlFile(f, base, content, re, index, pending)
			}

			for dep := range deps {
				depBase := pathutil.Basename(dep)
				if foundBasenames.Contains(depBase) {
					continue
				}
				foundBasenames.Add(depBase)
				queue = append(queue, dep)
			}

			firstPop = advance(firstPop, cfg.IncludeSource, f, &output)
		} else {
			newlyFound := r.drainPending(pending, failed)
			for dep := range newlyFound {
				depBase := pathutil.Basename(dep)
				if foundBasenames.Contains(depBase) {
					continue
				}
				foundBasenames.Add(depBase)
				queue = append(queue, dep)
			}
		}
	}

	return output, failed
}

// advance appends f to output according to the first-pop/include_source
// rule and returns the new firstPop state.
func advance(firstPop, includeSource bool, f string, output *[]string) bool {
	if firstPop {
		if includeSource {
			*output = append(*output, f)
		}
		return false
	}
	*output = append(*output, f)
	return firstPop
}

// reuseCachedDeps returns the cached dependency set for base if it is still
// valid (not modified since the last crawl and every cached path still
// exists), patching any individually-missing paths via KnownPaths and the
// search paths before giving up on them. reused is false if a full crawl is
// required.
func (r *Resolver) reuseCachedDeps(f, base string, failed FailedFiles) (deps collections.Set[string], reused bool) {
	cached, hasCache := r.fileKnownDeps[base]
	crawlMtime, hasMtime := r.crawlMtime[base]
	if !hasCache || !hasMtime {
		return nil, false
	}
	mtime, ok := pathutil.ModTime(f)
	if !ok || mtime > crawlMtime {
		return nil, false
	}

	if unknown, ok := r.fileUnknownDeps[base]; ok {
		for tok := range unknown {
			failed.add(f, tok)
		}
	}

	var missingBasenames []string
	valid := make(collections.Set[string])
	for dep := range cached {
		if pathutil.Exists(dep) {
			valid.Add(dep)
		} else {
			missingBasenames = append(missingBasenames, pathutil.Basename(dep))
		}
	}
	if len(missingBasenames) == 0 {
		return cached, true
	}

	found := r.lookupKnownMany(missingBasenames)
	var stillMissing []string
	for _, b := range missingBasenames {
		if p, ok := found[b]; ok {
			valid.Add(p)
		} else {
			stillMissing = append(stillMissing, b)
		}
	}
	if len(stillMissing) > 0 {
		found = r.searchMany(stillMissing)
		var reallyMissing []string
		for _, b := range stillMissing {
			if p, ok := found[b]; ok {
				valid.Add(p)
			} else {
				reallyMissing = append(reallyMissing, b)
			}
		}
		for _, b := range reallyMissing {
			failed.add(f, b)
		}
	}

	r.fileKnownDeps[base] = valid
	return valid, true
}

// crawlFile extracts f's #include tokens from content and resolves each
// one, recording unresolved basenames into pending for this run's final
// search-path drain.
func (r *Resolver) crawlFile(f, base, content string, re *regexp.Regexp, index ProjectIndex, pending map[string]collections.Set[string]) collections.Set[string] {
	deps := make(collections.Set[string])
	dir := pathutil.Dirname(f)
	unknown := make(collections.Set[string])

	for _, m := range re.FindAllStringSubmatch(content, -1) {
		token := pathutil.Normalize(m[1])
		tokenBase := pathutil.Basename(token)

		resolved := ""
		if known, ok := r.lookupKnown(tokenBase); ok {
			resolved = known
		} else if strings.Contains(token, pathutil.Separator) {
			var candidate string
			if pathutil.IsAbs(token) {
				candidate = token
			} else {
				candidate = pathutil.Join(dir, token)
			}
			if pathutil.Exists(candidate) {
				resolved = candidate
			} else {
				unknown.Add(pathutil.Basename(candidate))
			}
		} else {
			candidate := pathutil.Join(dir, token)
			if pathutil.Exists(candidate) {
				resolved = candidate
			} else if hit, ok := lookupIndex(index, token); ok {
				resolved = hit
			} else {
				unknown.Add(token)
			}
		}

		if resolved == "" {
			continue
		}
		resolved = pathutil.Normalize(resolved)
		if resolved == f {
			continue
		}
		deps.Add(resolved)
		r.rememberKnown(pathutil.Basename(resolved), resolved)
	}

	if len(unknown) > 0 {
		addPending(pending, f, unknown)
	}

	mtime, _ := pathutil.ModTime(f)
	r.fileKnownDeps[base] = deps
	r.crawlMtime[base] = mtime
	delete(r.fileUnknownDeps, base)

	return deps
}

// drainPending resolves every basename queued in pending via the configured
// SearchPaths, attributes hits back to each requesting file's
// FileKnownDeps, and records misses in failed and in the requesting file's
// FileUnknownDeps. pending is always empty after this call. The returned set
// is every newly-resolved path, which the caller must still enqueue for
// traversal - this deferred resolution happens outside the normal
// queue-pop/crawl step, so nothing else will discover them.
func (r *Resolver) drainPending(pending map[string]collections.Set[string], failed FailedFiles) collections.Set[string] {
	newlyFound := make(collections.Set[string])
	if len(pending) == 0 {
		return newlyFound
	}

	union := make(collections.Set[string])
	for _, toks := range pending {
		union.Join(toks)
	}

	found := r.searchMany(union.Values())

	for f, toks := range pending {
		var hit collections.Set[string]
		var miss []string
		for tok := range toks {
			if p, ok := found[tok]; ok {
				if hit == nil {
					hit = make(collections.Set[string])
				}
				hit.Add(p)
				newlyFound.Add(p)
			} else {
				miss = append(miss, tok)
			}
		}
		if len(hit) > 0 {
			base := pathutil.Basename(f)
			existing, ok := r.fileKnownDeps[base]
			if !ok {
				existing = make(collections.Set[string])
			}
			existing.Join(hit)
			r.fileKnownDeps[base] = existing
		}
		if len(miss) > 0 {
			for _, m := range miss {
				failed.add(f, m)
			}
			r.fileUnknownDeps[pathutil.Basename(f)] = collections.ToSet(miss)
		}
	}

	for f := range pending {
		delete(pending, f)
	}

	return newlyFound
}

func addPending(pending map[string]collections.Set[string], f string, basenames collections.Set[string]) {
	existing, ok := pending[f]
	if !ok {
		existing = make(collections.Set[string])
		pending[f] = existing
	}
	existing.Join(basenames)
}

// lookupKnown returns the known absolute path for basename, evicting the
// entry if the path is no longer on disk.
func (r *Resolver) lookupKnown(basename string) (string, bool) {
	p, ok := r.knownPaths[basename]
	if !ok {
		return "", false
	}
	if !pathutil.Exists(p) {
		delete(r.knownPaths, basename)
		return "", false
	}
	return p, true
}

func (r *Resolver) lookupKnownMany(basenames []string) map[string]string {
	found := make(map[string]string)
	for _, b := range basenames {
		if p, ok := r.lookupKnown(b); ok {
			found[b] = p
		}
	}
	return found
}

func (r *Resolver) rememberKnown(basename, path string) {
	if _, ok := r.knownPaths[basename]; !ok {
		r.knownPaths[basename] = path
	}
}

// searchMany resolves basenames by walking each configured search path in
// order, stopping as soon as every basename has been found.
func (r *Resolver) searchMany(basenames []string) map[string]string {
	found := make(map[string]string)
	remaining := append([]string(nil), basenames...)
	for _, dir := range r.searchPaths {
		if len(remaining) == 0 {
			break
		}
		hits := pathutil.Find(remaining, dir)
		var next []string
		for _, b := range remaining {
			if p, ok := hits[b]; ok {
				found[b] = p
				r.rememberKnown(b, p)
			} else {
				next = append(next, b)
			}
		}
		remaining = next
	}
	return found
}

func lookupIndex(index ProjectIndex, basename string) (string, bool) {
	if p, ok := index.Source[basename]; ok {
		return p, true
	}
	if p, ok := index.Relevant[basename]; ok {
		return p, true
	}
	return "", false
}
