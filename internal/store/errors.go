// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

var (
	// ErrNotFound is returned when no workflow document exists for a name.
	ErrNotFound = errors.New("workflow not found in store")
	// ErrCorrupted is returned when neither the primary document nor its
	// backup holds a valid workflow and at least one of the two files
	// exists; when neither exists, ErrNotFound is returned instead.
	ErrCorrupted = errors.New("workflow state is corrupted")
	// ErrWrite is returned when an atomic save fails partway through.
	ErrWrite = errors.New("failed to persist workflow state")
	// ErrNewerSchema is returned when a document's schema version is newer
	// than this build understands.
	ErrNewerSchema = errors.New("workflow state uses a newer schema version than this build supports")
)
