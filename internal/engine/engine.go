// SPDX-License-Identifier: Apache-2.0

// Package engine drives a persistent workflow one module at a time: create,
// resume, single-step execution, and cleanup, built around the Sequencer's
// module order and the State Store's durability guarantees.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rolfedh/adt-core/internal/catalog"
	"github.com/rolfedh/adt-core/internal/config"
	"github.com/rolfedh/adt-core/internal/gitmeta"
	"github.com/rolfedh/adt-core/internal/module"
	"github.com/rolfedh/adt-core/internal/scanner"
	"github.com/rolfedh/adt-core/internal/sequencer"
	"github.com/rolfedh/adt-core/internal/store"
	"github.com/rolfedh/adt-core/internal/workflow"
)

// Clock abstracts time.Now so tests can control timestamps; production
// callers use RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// Engine orchestrates workflows. Catalog is optional: a nil Catalog simply
// skips the read-model refresh.
type Engine struct {
	Store   *store.Store
	Catalog *catalog.Catalog
	Scanner *scanner.Scanner
	Clock   Clock
	Logger  *slog.Logger
}

// New constructs an Engine with sensible defaults for unset fields.
func New(st *store.Store, cat *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Store:   st,
		Catalog: cat,
		Scanner: scanner.New(scanner.DefaultOptions()),
		Clock:   RealClock{},
		Logger:  logger,
	}
}

// Workflow is a live, in-memory handle on a persisted workflow: its state
// plus the module instances and effective configs needed to step it. The
// set of initialized modules is process-local and not persisted, matching
// the contract that Initialize is idempotent and re-run on resume.
type Workflow struct {
	State       *workflow.State
	modules     map[string]module.Module
	configs     map[string]map[string]any
	initialized map[string]bool
	results     map[string]map[string]any
}

// StepOutcome reports what execute_next did.
type StepOutcome struct {
	Done   bool
	Module string
	Result module.Result
}

// StartWorkflow creates a new workflow named name over directory, planning
// its module order via the Sequencer and seeding file discovery.
func (e *Engine) StartWorkflow(
	ctx context.Context,
	name, directory string,
	modules map[string]module.Module,
	resolver *config.Resolver,
	user *config.UserConfig,
	cli config.CLIOverrides,
) (*Workflow, error) {
	if e.Store.Exists(name) {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowExists, name)
	}

	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, directory)
	}
	dirHandle, err := os.Open(directory)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, directory)
	}
	_ = dirHandle.Close()

	result, err := sequencer.Sequence(modules, resolver, user, cli)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	for _, w := range result.Warnings {
		e.Logger.Warn("sequencing warning", "module", w.Module, "message", w.Message)
	}

	order := result.EnabledOrder()
	now := e.Clock.Now()
	state := workflow.New(name, directory, order, now)

	if e.Scanner != nil {
		if files, err := e.Scanner.Discover(directory); err == nil {
			state.FilesDiscovered = files
		} else {
			e.Logger.Warn("initial file discovery failed", "directory", directory, "error", err)
		}
	}

	if sha, err := gitmeta.CommitSHA(directory); err == nil {
		state.Metadata.SourceCommit = sha
	}

	if err := e.Store.Save(state); err != nil {
		return nil, err
	}
	e.refreshCatalog(state)

	configs := make(map[string]map[string]any, len(order))
	byName := make(map[string]module.Module, len(order))
	for _, res := range result.Resolutions {
		if res.State != sequencer.Enabled {
			continue
		}
		configs[res.Name] = res.EffectiveConfig
		if inst, ok := modules[res.Name]; ok {
			byName[res.Name] = inst
		}
	}

	return &Workflow{
		State:       state,
		modules:     byName,
		configs:     configs,
		initialized: map[string]bool{},
		results:     map[string]map[string]any{},
	}, nil
}

// ResumeWorkflow loads a previously created workflow. The module order on
// disk is authoritative and is not replanned; the caller's modules/resolver
// supply instances and effective config for names that are already in the
// loaded state.
func (e *Engine) ResumeWorkflow(
	ctx context.Context,
	name string,
	modules map[string]module.Module,
	resolver *config.Resolver,
) (*Workflow, error) {
	state, err := e.Store.Load(name)
	if err != nil {
		return nil, err
	}

	configs := make(map[string]map[string]any, len(state.ModuleOrder))
	results := make(map[string]map[string]any, len(state.ModuleOrder))
	for _, n := range state.ModuleOrder {
		cfg := map[string]any{}
		if resolver != nil {
			if c, err := resolver.EffectiveConfig(n); err == nil {
				cfg = c
			}
		}
		configs[n] = cfg
	}

	return &Workflow{
		State:       state,
		modules:     modules,
		configs:     configs,
		initialized: map[string]bool{},
		results:     results,
	}, nil
}

// ExecuteNext drives one step: the next pending or failed module in order,
// or a terminal "done" outcome once every module has completed.
func (e *Engine) ExecuteNext(ctx context.Context, wf *Workflow) (*StepOutcome, error) {
	name, ok := wf.State.NextModule()
	if !ok {
		if err := e.Store.Save(wf.State); err != nil {
			return nil, err
		}
		e.refreshCatalog(wf.State)
		return &StepOutcome{Done: true}, nil
	}

	inst, ok := wf.modules[name]
	if !ok {
		now := e.Clock.Now()
		msg := fmt.Sprintf("module %q is not available in this process", name)
		_ = wf.State.MarkFailed(name, msg, now)
		_ = e.Store.Save(wf.State)
		e.refreshCatalog(wf.State)
		return nil, fmt.Errorf("%w: %s", ErrModuleUnavailable, name)
	}

	if !wf.initialized[name] {
		if err := inst.Initialize(ctx, wf.configs[name]); err != nil {
			now := e.Clock.Now()
			_ = wf.State.MarkFailed(name, err.Error(), now)
			_ = e.Store.Save(wf.State)
			e.refreshCatalog(wf.State)
			return nil, &ExecutionError{Module: name, Err: err}
		}
		wf.initialized[name] = true
	}

	execCtx := module.Context{
		Directory: wf.State.Directory,
		Files:     wf.State.FilesDiscovered,
		Recursive: true,
		Results:   wf.results,
	}

	startedAt := e.Clock.Now()
	if err := wf.State.MarkStarted(name, startedAt); err != nil {
		return nil, err
	}
	if err := e.Store.Save(wf.State); err != nil {
		return nil, err
	}
	e.refreshCatalog(wf.State)

	result, err := runProtected(ctx, inst, execCtx)

	now := e.Clock.Now()
	if err != nil || result.Status == module.StatusError {
		msg := result.ErrorMessage
		if err != nil {
			msg = err.Error()
		}
		_ = wf.State.MarkFailed(name, msg, now)
		_ = e.Store.Save(wf.State)
		e.refreshCatalog(wf.State)
		if err == nil {
			err = fmt.Errorf("%s", msg)
		}
		return nil, &ExecutionError{Module: name, Err: err}
	}

	if name == module.DirectoryConfigName {
		if files := module.FilesDiscovered(result.Data); files != nil {
			wf.State.FilesDiscovered = files
		}
		if blob, ok := module.DirectoryConfigBlob(result.Data); ok {
			wf.State.DirectoryConfig = blob
		}
	}
	wf.results[name] = result.Data

	completion := workflow.CompletionResult{
		ExecutionTime:  now.Sub(startedAt).Seconds(),
		FilesProcessed: result.FilesProcessed,
		FilesModified:  result.FilesModified,
	}
	if err := wf.State.MarkCompleted(name, completion, now); err != nil {
		return nil, err
	}
	if err := e.Store.Save(wf.State); err != nil {
		return nil, err
	}
	e.refreshCatalog(wf.State)

	return &StepOutcome{Module: name, Result: result}, nil
}

// runProtected calls Execute, converting a panic into an error-shaped
// Result the same way the engine treats any other module failure.
func runProtected(ctx context.Context, inst module.Module, execCtx module.Context) (result module.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module panicked: %v", r)
		}
	}()
	return inst.Execute(ctx, execCtx)
}

// CleanupWorkflow removes a single workflow by name.
func (e *Engine) CleanupWorkflow(name string) error {
	if err := e.Store.Delete(name); err != nil {
		return err
	}
	if e.Catalog != nil {
		if err := e.Catalog.Remove(name); err != nil {
			e.Logger.Warn("catalog removal failed", "workflow", name, "error", err)
		}
	}
	return nil
}

// CleanupCompleted removes every workflow whose status is completed. It
// refuses to act unless confirm is true: the caller supplies the explicit
// confirmation (the CLI passes the value of its --confirm flag).
func (e *Engine) CleanupCompleted(confirm bool) ([]string, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	return e.cleanupWhere(func(s *workflow.State) bool { return s.Status == workflow.StatusCompleted })
}

// CleanupAll removes every workflow in the store. Same confirmation
// requirement as CleanupCompleted.
func (e *Engine) CleanupAll(confirm bool) ([]string, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	return e.cleanupWhere(func(*workflow.State) bool { return true })
}

func (e *Engine) cleanupWhere(match func(*workflow.State) bool) ([]string, error) {
	names, err := e.Store.List()
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, name := range names {
		state, err := e.Store.Load(name)
		if err != nil {
			e.Logger.Warn("skipping unreadable workflow during cleanup", "workflow", name, "error", err)
			continue
		}
		if !match(state) {
			continue
		}
		if err := e.CleanupWorkflow(name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func (e *Engine) refreshCatalog(s *workflow.State) {
	if e.Catalog == nil {
		return
	}
	if err := e.Catalog.Upsert(s); err != nil {
		e.Logger.Warn("catalog refresh failed", "workflow", s.Name, "error", err)
	}
}
