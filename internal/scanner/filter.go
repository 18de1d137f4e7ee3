// SPDX-License-Identifier: Apache-2.0

// Package scanner performs the default shallow file discovery a new
// workflow seeds files_discovered with before DirectoryConfig runs.
package scanner

import (
	"path/filepath"
	"strings"
)

// Filter determines which files and directories the scanner visits.
type Filter struct {
	ExcludeDirs []string
	IncludeExts []string
}

// DefaultFilter matches *.adoc and *.asciidoc source files, skipping the
// usual non-content directories found alongside a documentation tree.
func DefaultFilter() *Filter {
	return &Filter{
		ExcludeDirs: []string{".git", "node_modules", "vendor", "target", "build", "dist", ".adt"},
		IncludeExts: []string{".adoc", ".asciidoc"},
	}
}

// ShouldScan reports whether path should be treated as a candidate source
// file.
func (f *Filter) ShouldScan(path string) bool {
	for _, exclude := range f.ExcludeDirs {
		if strings.Contains(path, string(filepath.Separator)+exclude+string(filepath.Separator)) {
			return false
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range f.IncludeExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ShouldDescendIntoDir reports whether the walker should recurse into a
// directory with the given base name.
func (f *Filter) ShouldDescendIntoDir(dirName string) bool {
	if strings.HasPrefix(dirName, ".") {
		return false
	}
	for _, exclude := range f.ExcludeDirs {
		if dirName == exclude {
			return false
		}
	}
	return true
}
