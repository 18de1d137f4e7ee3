// SPDX-License-Identifier: Apache-2.0

package workflow

import "testing"

func TestComputeProgress_MixedStatuses(t *testing.T) {
	s := New("w1", "/docs", []string{"A", "B", "C", "D"}, baseTime())
	if err := s.MarkCompleted("A", CompletionResult{FilesProcessed: 5, FilesModified: 2}, baseTime()); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	if err := s.MarkFailed("B", "boom", baseTime()); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	if err := s.MarkStarted("C", baseTime()); err != nil {
		t.Fatalf("MarkStarted failed: %v", err)
	}
	// D stays pending.

	p := ComputeProgress(s)

	if p.TotalModules != 4 {
		t.Errorf("expected 4 total modules, got %d", p.TotalModules)
	}
	if p.CompletedModules != 1 || p.FailedModules != 1 || p.RunningModules != 1 || p.PendingModules != 1 {
		t.Errorf("unexpected status counts: %+v", p)
	}
	if p.CompletionPercentage != 25 {
		t.Errorf("expected 25%% completion, got %v", p.CompletionPercentage)
	}
	if p.ProcessedFiles != 5 || p.ModifiedFiles != 2 {
		t.Errorf("expected processed=5 modified=2, got processed=%d modified=%d", p.ProcessedFiles, p.ModifiedFiles)
	}
	if p.CurrentModule != "B" {
		t.Errorf("expected current module to be the failed retry candidate B, got %q", p.CurrentModule)
	}
}

func TestComputeProgress_EmptyWorkflowYieldsZeroPercent(t *testing.T) {
	s := New("w1", "/docs", nil, baseTime())
	p := ComputeProgress(s)
	if p.CompletionPercentage != 0 {
		t.Errorf("expected 0%% for an empty workflow, got %v", p.CompletionPercentage)
	}
}

func TestComputeProgress_MonotonicCompletedCount(t *testing.T) {
	s := New("w1", "/docs", []string{"A", "B"}, baseTime())

	before := ComputeProgress(s).CompletedModules
	if err := s.MarkCompleted("A", CompletionResult{}, baseTime()); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	afterOne := ComputeProgress(s).CompletedModules
	if afterOne < before {
		t.Fatalf("completed_modules decreased: %d -> %d", before, afterOne)
	}

	if err := s.MarkCompleted("B", CompletionResult{}, baseTime()); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	afterTwo := ComputeProgress(s).CompletedModules
	if afterTwo < afterOne {
		t.Fatalf("completed_modules decreased: %d -> %d", afterOne, afterTwo)
	}
}
