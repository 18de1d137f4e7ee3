// SPDX-License-Identifier: Apache-2.0

// Package module defines the capability set every content-processing plugin
// exposes to the sequencer and workflow engine.
package module

import "context"

// ReleaseStatus marks whether a module is generally available or still
// gated behind explicit opt-in.
type ReleaseStatus string

const (
	GA      ReleaseStatus = "GA"
	Preview ReleaseStatus = "preview"
)

// DirectoryConfigName is the privileged module name the engine treats
// specially: when it completes successfully its result may seed file
// discovery and directory filtering for every module that follows. Neither
// the sequencer nor the engine gives it a position of its own: it runs where
// the dependency order places it, and it runs first only when that order
// puts it first.
const DirectoryConfigName = "DirectoryConfig"

// Identity is the static, self-declared portion of a module's contract.
type Identity interface {
	// Name is a unique, version-stable identifier.
	Name() string
	// Version is a semantic version string.
	Version() string
	// Dependencies lists module names that must be initialized first.
	Dependencies() []string
	// ReleaseStatus reports GA or Preview.
	ReleaseStatus() ReleaseStatus
}

// Status is the outcome of a single module execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Result is returned by Execute and recorded into the workflow's per-module
// execution state.
type Result struct {
	Status         Status
	Message        string
	FilesProcessed int
	FilesModified  int
	ExecutionTime  float64 // seconds
	ErrorMessage   string
	// Data carries free-form module output. DirectoryConfig's result may
	// set the DataKeyFilesDiscovered/DataKeyDirectoryConfig keys that the
	// engine reads specially; see FilesDiscovered and DirectoryConfigBlob.
	Data map[string]any
}

// Context is handed to Execute. Modules may read but must not mutate keys
// they did not write themselves.
type Context struct {
	Directory string
	Files     []string
	Recursive bool
	// Results holds the Result.Data of every module that has completed
	// successfully in this workflow during the current process, keyed by
	// module name. It is not persisted: after a resume it holds only the
	// results of modules completed since the resume.
	Results map[string]map[string]any
}

// Module is the full capability set the Sequencer and Workflow Engine
// require of every plugin. Any type implementing it is a module; no base
// type or reflection is required.
type Module interface {
	Identity

	// Initialize is idempotent and receives the effective merged config for
	// this module. It may fail with an initialization error.
	Initialize(ctx context.Context, config map[string]any) error

	// Execute runs the module's logic against the given context.
	Execute(ctx context.Context, execCtx Context) (Result, error)

	// Cleanup releases any resources. It must tolerate being called after
	// a failed Initialize.
	Cleanup(ctx context.Context) error
}

// Keys of a successful DirectoryConfig module's Result.Data. The Workflow
// Engine reads files_discovered and directory_config to seed context for
// downstream modules; it does not read excluded_dir_count.
const (
	DataKeyFilesDiscovered  = "files_discovered"
	DataKeyDirectoryConfig  = "directory_config"
	DataKeyExcludedDirCount = "excluded_dir_count"
)

// FilesDiscovered extracts a []string from a DirectoryConfig result's Data,
// returning nil if the key is absent or the wrong shape.
func FilesDiscovered(data map[string]any) []string {
	v, ok := data[DataKeyFilesDiscovered]
	if !ok {
		return nil
	}
	files, ok := v.([]string)
	if !ok {
		return nil
	}
	return files
}

// DirectoryConfigBlob extracts the opaque directory_config blob produced by
// the DirectoryConfig module, if any.
func DirectoryConfigBlob(data map[string]any) (any, bool) {
	v, ok := data[DataKeyDirectoryConfig]
	return v, ok
}
