// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Options configures a scan.
type Options struct {
	Workers   int
	Filter    *Filter
	Recursive bool
}

// DefaultOptions returns sensible defaults: a small worker pool and the
// default AsciiDoc filter.
func DefaultOptions() Options {
	return Options{Workers: 8, Filter: DefaultFilter(), Recursive: true}
}

// Scanner discovers candidate source files under a directory using a
// worker-pool walk: one goroutine walks the tree and feeds paths to a fixed
// pool of filter-checking workers.
type Scanner struct {
	opts Options
}

// New creates a Scanner with opts, filling in defaults for zero values.
func New(opts Options) *Scanner {
	if opts.Filter == nil {
		opts.Filter = DefaultFilter()
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &Scanner{opts: opts}
}

// Discover walks dir and returns every matching file's absolute path,
// sorted for deterministic output.
func (s *Scanner) Discover(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("directory does not exist: %w", err)
	}

	paths := make(chan string, 128)
	matched := make(chan string, 128)

	go func() {
		defer close(paths)
		s.walk(dir, paths)
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				if s.opts.Filter.ShouldScan(p) {
					matched <- p
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(matched)
	}()

	var found []string
	for p := range matched {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		found = append(found, abs)
	}

	sort.Strings(found)
	return found, nil
}

func (s *Scanner) walk(root string, out chan<- string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && !s.opts.Filter.ShouldDescendIntoDir(d.Name()) {
				return filepath.SkipDir
			}
			if !s.opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		out <- path
		return nil
	})
}
