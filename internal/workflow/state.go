// SPDX-License-Identifier: Apache-2.0

// Package workflow models a persistent, stateful run of an enabled module
// sequence over a directory tree: the in-memory value object the Workflow
// Engine mutates on every step, plus the pure progress-reporting functions
// derived from it.
package workflow

import (
	"errors"
	"time"
)

// Status is the workflow's overall lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusArchived  Status = "archived"
)

// ModuleStatus is the per-module execution status inside a workflow.
type ModuleStatus string

const (
	ModulePending   ModuleStatus = "pending"
	ModuleRunning   ModuleStatus = "running"
	ModuleCompleted ModuleStatus = "completed"
	ModuleFailed    ModuleStatus = "failed"
)

// ErrUnknownModule is returned by mutators given a module name not present
// in the workflow.
var ErrUnknownModule = errors.New("workflow: unknown module")

// SchemaVersion is the current on-disk schema version. internal/store
// upgrades a document's Metadata.Version to this value when it loads it, so
// the next save writes the current version.
const SchemaVersion = 2

// ExecutionState is the per-module record inside a workflow.
type ExecutionState struct {
	Status         ModuleStatus `json:"status"`
	StartedAt      *time.Time   `json:"started_at,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	ExecutionTime  float64      `json:"execution_time,omitempty"`
	FilesProcessed int          `json:"files_processed,omitempty"`
	FilesModified  int          `json:"files_modified,omitempty"`
	RetryCount     int          `json:"retry_count"`
	ErrorMessage   string       `json:"error_message,omitempty"`
}

// Metadata carries schema and tool provenance recorded alongside a workflow.
type Metadata struct {
	Version      int    `json:"version"`
	ToolVersion  string `json:"tool_version,omitempty"`
	SourceCommit string `json:"source_commit,omitempty"`
}

// State is the in-memory model of a single workflow. The zero value is not
// valid; construct with New.
type State struct {
	Name            string                    `json:"name"`
	Directory       string                    `json:"directory"`
	Status          Status                    `json:"status"`
	CreatedAt       time.Time                 `json:"created"`
	LastActivityAt  time.Time                 `json:"last_activity"`
	ModuleOrder     []string                  `json:"-"`
	Modules         map[string]ExecutionState `json:"modules"`
	FilesDiscovered []string                  `json:"files_discovered"`
	DirectoryConfig any                       `json:"directory_config,omitempty"`
	Metadata        Metadata                  `json:"metadata"`
}

// New constructs a workflow over the given initialization order. Order is
// frozen for the workflow's lifetime: it is not re-derived from the
// developer config on resume.
func New(name, directory string, moduleOrder []string, now time.Time) *State {
	modules := make(map[string]ExecutionState, len(moduleOrder))
	order := make([]string, len(moduleOrder))
	for i, m := range moduleOrder {
		order[i] = m
		modules[m] = ExecutionState{Status: ModulePending}
	}
	return &State{
		Name:           name,
		Directory:      directory,
		Status:         StatusActive,
		CreatedAt:      now,
		LastActivityAt: now,
		ModuleOrder:    order,
		Modules:        modules,
		Metadata:       Metadata{Version: SchemaVersion},
	}
}

// MarkStarted transitions a module from pending/failed to running.
func (s *State) MarkStarted(name string, now time.Time) error {
	exec, ok := s.Modules[name]
	if !ok {
		return unknownModule(name)
	}
	exec.Status = ModuleRunning
	started := now
	exec.StartedAt = &started
	s.Modules[name] = exec
	s.touch(now)
	return nil
}

// CompletionResult carries the outcome counts MarkCompleted records.
type CompletionResult struct {
	ExecutionTime  float64
	FilesProcessed int
	FilesModified  int
}

// MarkCompleted transitions a module to completed, resets its retry count,
// and recomputes the workflow's overall status.
func (s *State) MarkCompleted(name string, result CompletionResult, now time.Time) error {
	exec, ok := s.Modules[name]
	if !ok {
		return unknownModule(name)
	}
	exec.Status = ModuleCompleted
	completed := now
	exec.CompletedAt = &completed
	exec.ExecutionTime = result.ExecutionTime
	exec.FilesProcessed = result.FilesProcessed
	exec.FilesModified = result.FilesModified
	exec.RetryCount = 0
	s.Modules[name] = exec
	s.touch(now)
	s.recomputeStatus()
	return nil
}

// MarkFailed transitions a module to failed and increments its retry count.
func (s *State) MarkFailed(name, errMsg string, now time.Time) error {
	exec, ok := s.Modules[name]
	if !ok {
		return unknownModule(name)
	}
	exec.Status = ModuleFailed
	exec.RetryCount++
	exec.ErrorMessage = errMsg
	s.Modules[name] = exec
	s.touch(now)
	return nil
}

// NextModule returns the first module in insertion order whose status is
// not completed, or "" if every module has completed. A failed module is
// returned again: it is the next module to retry.
func (s *State) NextModule() (string, bool) {
	for _, name := range s.ModuleOrder {
		if s.Modules[name].Status != ModuleCompleted {
			return name, true
		}
	}
	return "", false
}

func (s *State) recomputeStatus() {
	for _, name := range s.ModuleOrder {
		if s.Modules[name].Status != ModuleCompleted {
			return
		}
	}
	s.Status = StatusCompleted
}

func (s *State) touch(now time.Time) {
	s.LastActivityAt = now
}

func unknownModule(name string) error {
	return &ModuleNameError{Name: name}
}

// ModuleNameError names the module not found in a workflow.
type ModuleNameError struct{ Name string }

func (e *ModuleNameError) Error() string { return "workflow: unknown module " + e.Name }
func (e *ModuleNameError) Unwrap() error { return ErrUnknownModule }
