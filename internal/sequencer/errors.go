// SPDX-License-Identifier: Apache-2.0

// Package sequencer builds the module dependency graph, detects cycles,
// produces a deterministic topological order, and resolves each module's
// enable/disable state by precedence.
package sequencer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingDependency is wrapped into a dependency error naming the
// offending module and the dependency it references.
var ErrMissingDependency = errors.New("dependency references an unknown module")

// ErrCircularDependency is wrapped into a dependency error naming the cycle.
var ErrCircularDependency = errors.New("circular dependency")

// MissingDependencyError names the module and the dependency it declares
// that is not a known module.
type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("module %q depends on unknown module %q", e.Module, e.Dependency)
}

func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }

// CircularDependencyError names a cycle in traversal order, e.g. A -> B -> A.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }
