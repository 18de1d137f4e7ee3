// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowExists is returned by StartWorkflow when name is already
	// present in the store.
	ErrWorkflowExists = errors.New("engine: workflow already exists")
	// ErrInvalidDirectory is returned when the target directory does not
	// exist or is not readable.
	ErrInvalidDirectory = errors.New("engine: invalid directory")
	// ErrPlanningFailed is returned when the Sequencer could not produce a
	// usable module order.
	ErrPlanningFailed = errors.New("engine: workflow planning failed")
	// ErrModuleUnavailable is returned when a workflow names a module the
	// registry no longer has an instance for.
	ErrModuleUnavailable = errors.New("engine: module unavailable")
	// ErrConfirmationRequired is returned by CleanupCompleted and CleanupAll
	// for a destructive bulk operation invoked without explicit confirmation.
	ErrConfirmationRequired = errors.New("engine: destructive cleanup requires explicit confirmation")
)

// ExecutionError reports that a module's Execute (or Initialize) step
// failed during execute_next.
type ExecutionError struct {
	Module string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("engine: module %q failed: %v", e.Module, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
