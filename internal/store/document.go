// SPDX-License-Identifier: Apache-2.0

// Package store persists workflow.State to a per-user directory: one JSON
// document per workflow, written with a tmp-write/rename/backup discipline
// so a reader never observes a half-written file and a failed save never
// loses the previous snapshot.
package store

import (
	"time"

	"github.com/rolfedh/adt-core/internal/workflow"
)

// document is the JSON-friendly form of workflow.State. workflow.State keeps
// module order out of its JSON tags (order lives in the insertion-ordered
// ModuleOrder slice, which encoding/json cannot express over a Go map), so
// the store serializes order explicitly as moduleEntry and reconstructs the
// map on load.
type document struct {
	Name            string          `json:"name"`
	Directory       string          `json:"directory"`
	Status          workflow.Status `json:"status"`
	CreatedAt       time.Time       `json:"created"`
	LastActivityAt  time.Time       `json:"last_activity"`
	Modules         []moduleEntry   `json:"modules"`
	FilesDiscovered []string        `json:"files_discovered"`
	DirectoryConfig any             `json:"directory_config,omitempty"`
	Metadata        documentMeta    `json:"metadata"`
}

type moduleEntry struct {
	Name string `json:"name"`
	workflow.ExecutionState
}

type documentMeta struct {
	Version      int    `json:"version"`
	ToolVersion  string `json:"tool_version,omitempty"`
	SourceCommit string `json:"source_commit,omitempty"`
}

func toDocument(s *workflow.State) *document {
	modules := make([]moduleEntry, 0, len(s.ModuleOrder))
	for _, name := range s.ModuleOrder {
		modules = append(modules, moduleEntry{Name: name, ExecutionState: s.Modules[name]})
	}
	return &document{
		Name:            s.Name,
		Directory:       s.Directory,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
		LastActivityAt:  s.LastActivityAt,
		Modules:         modules,
		FilesDiscovered: s.FilesDiscovered,
		DirectoryConfig: s.DirectoryConfig,
		Metadata: documentMeta{
			Version:      s.Metadata.Version,
			ToolVersion:  s.Metadata.ToolVersion,
			SourceCommit: s.Metadata.SourceCommit,
		},
	}
}

func fromDocument(d *document) *workflow.State {
	order := make([]string, len(d.Modules))
	modules := make(map[string]workflow.ExecutionState, len(d.Modules))
	for i, m := range d.Modules {
		order[i] = m.Name
		modules[m.Name] = m.ExecutionState
	}
	return &workflow.State{
		Name:            d.Name,
		Directory:       d.Directory,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		LastActivityAt:  d.LastActivityAt,
		ModuleOrder:     order,
		Modules:         modules,
		FilesDiscovered: d.FilesDiscovered,
		DirectoryConfig: d.DirectoryConfig,
		Metadata: workflow.Metadata{
			Version:      d.Metadata.Version,
			ToolVersion:  d.Metadata.ToolVersion,
			SourceCommit: d.Metadata.SourceCommit,
		},
	}
}
