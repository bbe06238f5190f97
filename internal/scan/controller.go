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

// Package scan implements the periodic controller that rediscovers a
// project's source and header files, decides per source file whether its
// dependency fragment needs to be rebuilt and/or rewritten, and drives the
// include resolver and fragment writer to do so.
package scan

import (
	"fmt"
	"os"
	"strings"

	"github.com/cdepgen/cdepgen/internal/config"
	"github.com/cdepgen/cdepgen/internal/fragment"
	"github.com/cdepgen/cdepgen/internal/pathutil"
	"github.com/cdepgen/cdepgen/internal/resolver"
)

var (
	sourceExtensions   = []string{"c", "cpp"}
	relevantExtensions = []string{"h"}
	dependencyExt      = "d"
	templateBasename   = "dependency_template.txt"
)

// Controller owns one project's cross-cycle state: the resolver and its
// caches, the dependency list built for each source file, and the mtimes
// already validated for each.
type Controller struct {
	ProjectRoot string
	Config      *config.Config
	Resolver    *resolver.Resolver
	Logf        func(format string, args ...interface{})

	dependencyList map[string][]string
	checkedMtimes  map[string]map[string]int64
	firstIteration bool
}

// New returns a Controller ready for its first cycle.
func New(projectRoot string, cfg *config.Config, toolchainPattern string) *Controller {
	r := resolver.New()
	searchPaths := resolver.BuildSearchPaths(projectRoot, cfg.SearchPaths, cfg.BuiltinLibs, toolchainPattern)
	r.SetSearchPaths(searchPaths)

	return &Controller{
		ProjectRoot:    projectRoot,
		Config:         cfg,
		Resolver:       r,
		Logf:           func(string, ...interface{}) {},
		dependencyList: make(map[string][]string),
		checkedMtimes:  make(map[string]map[string]int64),
		firstIteration: true,
	}
}

// PopulateFiles performs one discovery pass over ProjectRoot and buckets
// the results by extension into a resolver.ProjectIndex.
func (c *Controller) PopulateFiles() resolver.ProjectIndex {
	patterns := []string{templateBasename, "*." + dependencyExt}
	for _, ext := range sourceExtensions {
		patterns = append(patterns, "*."+ext)
	}
	for _, ext := range relevantExtensions {
		patterns = append(patterns, "*."+ext)
	}

	found := pathutil.Find(patterns, c.ProjectRoot)

	index := resolver.ProjectIndex{
		Source:     make(map[string]string),
		Relevant:   make(map[string]string),
		Dependency: make(map[string]string),
	}

	for basename, path := range found {
		if basename == templateBasename {
			index.Template = path
			continue
		}
		ext := pathutil.Ext(basename)
		switch {
		case contains(sourceExtensions, ext):
			index.Source[basename] = path
		case contains(relevantExtensions, ext):
			index.Relevant[basename] = path
		case ext == dependencyExt:
			index.Dependency[basename] = path
		}
	}

	return index
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// Reconcile deletes any dependency fragment whose stem no longer has a
// matching source file, both from index.Dependency and from disk, and
// drops the matching entry (if any) from the dependency list. It returns
// the basenames removed.
func (c *Controller) Reconcile(index resolver.ProjectIndex) []string {
	var removed []string
	for depBasename, depPath := range index.Dependency {
		stem := pathutil.Stem(depBasename)
		hasSource := false
		for _, ext := range sourceExtensions {
			if _, ok := index.Source[stem+"."+ext]; ok {
				hasSource = true
				break
			}
		}
		if hasSource {
			continue
		}

		if err := os.Remove(depPath); err != nil {
			c.Logf("failed to remove orphaned fragment %q: %v", depPath, err)
		}
		delete(index.Dependency, depBasename)
		delete(c.dependencyList, depBasename)
		removed = append(removed, depBasename)
	}
	return removed
}

// DeduceDependencyLists back-parses every existing fragment using
// index.Template, seeding c.dependencyList. It is only meaningful the
// first time a cycle sees existing fragments with no in-memory list yet.
func (c *Controller) DeduceDependencyLists(index resolver.ProjectIndex) {
	if index.Template == "" {
		return
	}
	template, ok := pathutil.ReadText(index.Template)
	if !ok {
		return
	}

	for depBasename, depPath := range index.Dependency {
		stem := pathutil.Stem(depBasename)
		var srcBasename string
		for _, ext := range sourceExtensions {
			candidate := stem + "." + ext
			if _, ok := index.Source[candidate]; ok {
				srcBasename = candidate
				break
			}
		}
		if srcBasename == "" {
			continue
		}

		content, ok := pathutil.ReadText(depPath)
		if !ok {
			continue
		}

		deps, ok := fragment.ParseDependents(template, srcBasename, content)
		if !ok {
			continue
		}
		c.dependencyList[depBasename] = deps
	}
}

// Cycle runs one full scan cycle: repopulate, reconcile, deduce (if this
// is effectively the first time fragments are seen), and decide/resolve/
// emit for every source file. It returns false if the project has no
// dependency_template.txt, signalling the caller to stop scanning.
func (c *Controller) Cycle() bool {
	index := c.PopulateFiles()

	if index.Template == "" {
		c.Logf("couldn't find %q, containing the rule template used to build dependency fragments", templateBasename)
		return false
	}

	if len(index.Source) == 0 {
		return true
	}

	c.Reconcile(index)

	if len(c.dependencyList) == 0 && len(index.Dependency) > 0 {
		c.DeduceDependencyLists(index)
	}

	template, _ := pathutil.ReadText(index.Template)

	for srcBasename, srcPath := range index.Source {
		c.processSource(index, srcBasename, srcPath, template)
	}

	c.firstIteration = false
	return true
}

// processSource runs the per-source decision procedure and, if warranted,
// re-resolves and/or re-emits its dependency fragment.
func (c *Controller) processSource(index resolver.ProjectIndex, srcBasename, srcPath, template string) {
	depBasename := pathutil.Stem(srcBasename) + "." + dependencyExt
	depPath, depExists := index.Dependency[depBasename]

	var depMtime int64 = -1
	generate := false
	if !depExists {
		generate = true
	} else {
		var ok bool
		depMtime, ok = pathutil.ModTime(depPath)
		if !ok {
			generate = true
		}
		if tmplMtime, ok := pathutil.ModTime(index.Template); ok && tmplMtime > depMtime {
			generate = true
		}
	}

	oldList, hasOldList := c.dependencyList[depBasename]
	buildDepList := false
	oldListHasPaths := false

	if !hasOldList {
		buildDepList = true
	} else if c.firstIteration {
		buildDepList = true
		oldListHasPaths = len(oldList) > 0 && strings.Contains(oldList[0], pathutil.Separator)
		if oldListHasPaths != c.Config.DependencyPaths {
			generate = true
		}
	}

	srcMtime, _ := pathutil.ModTime(srcPath)
	if !buildDepList && srcMtime > depMtime {
		last, seen := c.checkedMtimes[srcBasename][srcPath]
		if !seen || srcMtime > last {
			buildDepList = true
		}
	}

	if _, ok := c.checkedMtimes[srcBasename]; !ok {
		c.checkedMtimes[srcBasename] = make(map[string]int64)
	}
	c.checkedMtimes[srcBasename][srcPath] = srcMtime

	if !buildDepList {
		for _, depFilePath := range oldList {
			mtime, ok := pathutil.ModTime(depFilePath)
			if !ok {
				buildDepList = true
			} else if mtime > depMtime {
				last, seen := c.checkedMtimes[srcBasename][depFilePath]
				if !seen || mtime > last {
					buildDepList = true
				}
			}
			if buildDepList {
				break
			}
			c.checkedMtimes[srcBasename][depFilePath] = mtime
		}
	}

	var newList []string
	if buildDepList {
		cfg := resolver.Config{BuiltinLibs: c.Config.BuiltinLibs, IncludeSource: c.Config.IncludeSource}
		deps, failures := c.Resolver.Resolve(srcPath, index, cfg)
		newList = deps

		emitEmpty := false
		if len(failures) > 0 {
			c.logFailures(srcPath, failures)
			if !c.Config.UseIncompleteList {
				newList = nil
			} else if len(newList) == 0 {
				// Tolerant mode still emits a fragment whose dependency
				// token list is empty.
				emitEmpty = true
			}
		}

		if len(newList) == 0 && !emitEmpty {
			for _, depFilePath := range oldList {
				if mtime, ok := pathutil.ModTime(depFilePath); ok {
					c.checkedMtimes[srcBasename][depFilePath] = mtime
				}
			}
			return
		}

		for _, p := range newList {
			if mtime, ok := pathutil.ModTime(p); ok {
				c.checkedMtimes[srcBasename][p] = mtime
			}
		}

		if !generate {
			generate = c.listChanged(oldList, newList, depMtime, oldListHasPaths, hasOldList)
		}

		c.dependencyList[depBasename] = newList
	}

	if !generate {
		return
	}

	list := newList
	if !buildDepList {
		list = oldList
	}

	dependentsStr := fragment.BuildList(list, c.Config.DependencyPaths)

	outDir := c.Config.DependencyDir
	if outDir == "" {
		outDir = pathutil.Dirname(srcPath)
	}

	if fragment.Write(outDir, template, srcBasename, dependentsStr, dependencyExt) {
		c.Logf("the dependency fragment for %q was updated", srcBasename)
	} else {
		c.Logf("the dependency fragment for %q failed to be updated", srcBasename)
	}
}

// listChanged compares the previous cycle's dependency list against a
// freshly resolved one. On the first iteration, when the stored list was
// back-parsed from a fragment that holds basenames rather than paths, only
// basenames are compared.
func (c *Controller) listChanged(oldList, newList []string, depMtime int64, oldListHasPaths, hadOldList bool) bool {
	if !hadOldList {
		for _, p := range newList {
			if mtime, ok := pathutil.ModTime(p); ok && mtime > depMtime {
				return true
			}
		}
		return false
	}

	if len(oldList) != len(newList) {
		return true
	}

	if c.firstIteration && !oldListHasPaths {
		oldBasenames := make(map[string]bool, len(oldList))
		for _, p := range oldList {
			oldBasenames[pathutil.Basename(p)] = true
		}
		for _, p := range newList {
			if !oldBasenames[pathutil.Basename(p)] {
				return true
			}
		}
		return false
	}

	oldSet := make(map[string]bool, len(oldList))
	for _, p := range oldList {
		oldSet[p] = true
	}
	for _, p := range newList {
		if !oldSet[p] {
			return true
		}
	}
	return false
}

func (c *Controller) logFailures(srcPath string, failures resolver.FailedFiles) {
	var b strings.Builder
	fmt.Fprintf(&b, "the dependency list for %q ", srcPath)
	if c.Config.UseIncompleteList {
		b.WriteString("is incomplete, because:")
	} else {
		b.WriteString("couldn't be generated, because:")
	}
	for path, tokens := range failures {
		if len(tokens) == 0 {
			fmt.Fprintf(&b, "\n\t- the file %q couldn't be found.", path)
			continue
		}
		fmt.Fprintf(&b, "\n\t- the contents of these #include directives, in %s, couldn't be found:", path)
		for tok := range tokens {
			fmt.Fprintf(&b, "\n\t\t- %s", tok)
		}
	}
	c.Logf("%s", b.String())
}
