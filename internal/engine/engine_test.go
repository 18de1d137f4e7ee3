// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/rolfedh/adt-core/internal/catalog"
	"github.com/rolfedh/adt-core/internal/config"
	"github.com/rolfedh/adt-core/internal/module"
	"github.com/rolfedh/adt-core/internal/store"
)

func newTestEngine(baseDir string) (*Engine, *stepClock) {
	st, err := store.New(filepath.Join(baseDir, "workflows"), slog.Default())
	Expect(err).NotTo(HaveOccurred())
	cat, err := catalog.Open(filepath.Join(baseDir, "catalog.db"))
	Expect(err).NotTo(HaveOccurred())

	e := New(st, cat, slog.Default())
	clock := newStepClock()
	e.Clock = clock
	return e, clock
}

var _ = Describe("Workflow Engine", func() {
	var (
		ctx     context.Context
		baseDir string
		docsDir string
		e       *Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		baseDir = GinkgoT().TempDir()
		docsDir = filepath.Join(baseDir, "docs")
		Expect(os.MkdirAll(docsDir, 0o755)).To(Succeed())
		e, _ = newTestEngine(baseDir)
	})

	Describe("StartWorkflow", func() {
		It("rejects a directory that does not exist", func() {
			modules := map[string]module.Module{"A": &scriptedModule{name: "A"}}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: "A", Required: true}}}
			resolver := config.NewResolver(dev, nil)

			_, err := e.StartWorkflow(ctx, "w1", filepath.Join(baseDir, "missing"), modules, resolver, nil, nil)
			Expect(err).To(MatchError(ErrInvalidDirectory))
		})

		It("rejects creating a workflow whose name already exists", func() {
			modules := map[string]module.Module{"A": &scriptedModule{name: "A"}}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: "A", Required: true}}}
			resolver := config.NewResolver(dev, nil)

			_, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).To(MatchError(ErrWorkflowExists))
		})

		It("fails planning when the module graph has a cycle", func() {
			modules := map[string]module.Module{
				"A": &scriptedModule{name: "A", deps: []string{"B"}},
				"B": &scriptedModule{name: "B", deps: []string{"A"}},
			}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{
				{Name: "A", Required: true}, {Name: "B", Required: true},
			}}
			resolver := config.NewResolver(dev, nil)

			_, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).To(MatchError(ErrPlanningFailed))
		})
	})

	Describe("scenario: workflow interrupt and resume", func() {
		It("resumes with completed modules intact and continues from the next pending module", func() {
			moduleA := &scriptedModule{name: "A"}
			moduleB := &scriptedModule{name: "B", deps: []string{"A"}}
			moduleC := &scriptedModule{name: "C", deps: []string{"B"}}
			modules := map[string]module.Module{"A": moduleA, "B": moduleB, "C": moduleC}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{
				{Name: "A", Required: true}, {Name: "B", Required: true}, {Name: "C", Required: true},
			}}
			resolver := config.NewResolver(dev, nil)

			wf, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			outcome, err := e.ExecuteNext(ctx, wf)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Module).To(Equal("A"))

			// Simulate a process restart: build a brand-new Engine over the
			// same on-disk store and resume into a fresh Workflow handle.
			e2, _ := newTestEngine(baseDir)
			resumed, err := e2.ResumeWorkflow(ctx, "w1", modules, resolver)
			Expect(err).NotTo(HaveOccurred())

			Expect(string(resumed.State.Modules["A"].Status)).To(Equal("completed"))
			Expect(string(resumed.State.Modules["B"].Status)).To(Equal("pending"))
			Expect(string(resumed.State.Modules["C"].Status)).To(Equal("pending"))

			next, ok := resumed.State.NextModule()
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal("B"))

			outcome, err = e2.ExecuteNext(ctx, resumed)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Module).To(Equal("B"))
		})
	})

	Describe("scenario: failure then retry", func() {
		It("marks the module failed with retry_count=1, then completed with retry_count=0", func() {
			flaky := &scriptedModule{name: "A", failuresRemaining: 1}
			modules := map[string]module.Module{"A": flaky}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: "A", Required: true}}}
			resolver := config.NewResolver(dev, nil)

			wf, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.ExecuteNext(ctx, wf)
			Expect(err).To(HaveOccurred())
			Expect(string(wf.State.Modules["A"].Status)).To(Equal("failed"))
			Expect(wf.State.Modules["A"].RetryCount).To(Equal(1))
			Expect(string(wf.State.Status)).NotTo(Equal("completed"))

			outcome, err := e.ExecuteNext(ctx, wf)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Module).To(Equal("A"))
			Expect(string(wf.State.Modules["A"].Status)).To(Equal("completed"))
			Expect(wf.State.Modules["A"].RetryCount).To(Equal(0))
			Expect(string(wf.State.Status)).To(Equal("completed"))
		})
	})

	Describe("ExecuteNext against an unavailable module", func() {
		It("marks the module failed and returns ErrModuleUnavailable", func() {
			modules := map[string]module.Module{"A": &scriptedModule{name: "A"}}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: "A", Required: true}}}
			resolver := config.NewResolver(dev, nil)

			wf, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			delete(wf.modules, "A")

			_, err = e.ExecuteNext(ctx, wf)
			Expect(err).To(MatchError(ErrModuleUnavailable))
			Expect(string(wf.State.Modules["A"].Status)).To(Equal("failed"))
		})
	})

	Describe("ExecuteNext against a panicking module", func() {
		It("converts the panic into a failed module instead of crashing the engine", func() {
			modules := map[string]module.Module{"A": &scriptedModule{name: "A", panicOnExecute: true}}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: "A", Required: true}}}
			resolver := config.NewResolver(dev, nil)

			wf, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.ExecuteNext(ctx, wf)
			Expect(err).To(HaveOccurred())
			Expect(string(wf.State.Modules["A"].Status)).To(Equal("failed"))
		})
	})

	Describe("DirectoryConfig privileged first step", func() {
		It("seeds files_discovered and directory_config from its result", func() {
			dirConfig := &scriptedModule{
				name: module.DirectoryConfigName,
				resultData: map[string]any{
					module.DataKeyFilesDiscovered: []string{"a.adoc", "b.adoc"},
					module.DataKeyDirectoryConfig:  map[string]any{"excluded_dirs": 2},
				},
			}
			modules := map[string]module.Module{module.DirectoryConfigName: dirConfig}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: module.DirectoryConfigName, Required: true}}}
			resolver := config.NewResolver(dev, nil)

			wf, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.ExecuteNext(ctx, wf)
			Expect(err).NotTo(HaveOccurred())
			Expect(wf.State.FilesDiscovered).To(Equal([]string{"a.adoc", "b.adoc"}))
			Expect(wf.State.DirectoryConfig).To(Equal(map[string]any{"excluded_dirs": 2}))
		})
	})

	Describe("CleanupAll", func() {
		It("requires confirmation for bulk cleanup and then removes matching workflows", func() {
			modules := map[string]module.Module{"A": &scriptedModule{name: "A"}}
			dev := &config.DevConfig{Version: "1", Modules: []config.ModuleEntry{{Name: "A", Required: true}}}
			resolver := config.NewResolver(dev, nil)

			_, err := e.StartWorkflow(ctx, "w1", docsDir, modules, resolver, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.CleanupAll(false)
			Expect(err).To(MatchError(ErrConfirmationRequired))

			removed, err := e.CleanupAll(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(ConsistOf("w1"))
			Expect(e.Store.Exists("w1")).To(BeFalse())
		})
	})
})
