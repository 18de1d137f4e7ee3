// SPDX-License-Identifier: Apache-2.0

package workflow

import "time"

// Progress is the pure-function summary derived from a workflow's state.
type Progress struct {
	TotalModules         int
	CompletedModules     int
	FailedModules        int
	PendingModules       int
	RunningModules       int
	CompletionPercentage float64
	CurrentModule        string
	ProcessedFiles       int
	ModifiedFiles        int
	StartedAt            time.Time
	LastActivityAt       time.Time
}

// ComputeProgress derives completion metrics and a next-action hint from a
// workflow's state. It performs no I/O.
func ComputeProgress(s *State) Progress {
	p := Progress{
		TotalModules:   len(s.ModuleOrder),
		StartedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}

	for _, name := range s.ModuleOrder {
		exec := s.Modules[name]
		switch exec.Status {
		case ModuleCompleted:
			p.CompletedModules++
		case ModuleFailed:
			p.FailedModules++
		case ModuleRunning:
			p.RunningModules++
		case ModulePending:
			p.PendingModules++
		}
		p.ProcessedFiles += exec.FilesProcessed
		p.ModifiedFiles += exec.FilesModified
	}

	if p.TotalModules > 0 {
		p.CompletionPercentage = 100 * float64(p.CompletedModules) / float64(p.TotalModules)
	}

	if name, ok := s.NextModule(); ok {
		p.CurrentModule = name
	}

	return p
}
