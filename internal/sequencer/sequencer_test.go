// SPDX-License-Identifier: Apache-2.0

package sequencer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rolfedh/adt-core/internal/config"
	"github.com/rolfedh/adt-core/internal/module"
)

type fakeModule struct {
	name          string
	version       string
	deps          []string
	releaseStatus module.ReleaseStatus
}

func (f fakeModule) Name() string            { return f.name }
func (f fakeModule) Version() string         { return f.version }
func (f fakeModule) Dependencies() []string  { return f.deps }
func (f fakeModule) ReleaseStatus() module.ReleaseStatus {
	if f.releaseStatus == "" {
		return module.GA
	}
	return f.releaseStatus
}
func (f fakeModule) Initialize(context.Context, map[string]any) error { return nil }
func (f fakeModule) Execute(context.Context, module.Context) (module.Result, error) {
	return module.Result{Status: module.StatusSuccess}, nil
}
func (f fakeModule) Cleanup(context.Context) error { return nil }

func devConfig(entries ...config.ModuleEntry) *config.DevConfig {
	return &config.DevConfig{Version: "1", Modules: entries}
}

func TestSequence_LinearChain(t *testing.T) {
	modules := map[string]module.Module{
		"A": fakeModule{name: "A"},
		"B": fakeModule{name: "B", deps: []string{"A"}},
		"C": fakeModule{name: "C", deps: []string{"B"}},
	}
	dev := devConfig(
		config.ModuleEntry{Name: "A", Required: true},
		config.ModuleEntry{Name: "B", Required: true},
		config.ModuleEntry{Name: "C", Required: true},
	)
	resolver := config.NewResolver(dev, nil)

	result, err := Sequence(modules, resolver, nil, nil)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}

	order := result.EnabledOrder()
	want := []string{"A", "B", "C"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
	for _, res := range result.Resolutions {
		if res.State != Enabled {
			t.Errorf("expected %s to be ENABLED, got %s", res.Name, res.State)
		}
	}
}

func TestSequence_Cycle(t *testing.T) {
	modules := map[string]module.Module{
		"A": fakeModule{name: "A", deps: []string{"B"}},
		"B": fakeModule{name: "B", deps: []string{"A"}},
	}
	dev := devConfig(
		config.ModuleEntry{Name: "A"},
		config.ModuleEntry{Name: "B"},
	)
	resolver := config.NewResolver(dev, nil)

	_, err := Sequence(modules, resolver, nil, nil)
	if err == nil {
		t.Fatal("expected a circular dependency error")
	}
	var cycleErr *CircularDependencyError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CircularDependencyError, got %T: %v", err, err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "A") || !strings.Contains(msg, "B") {
		t.Errorf("expected cycle message to name A and B, got %q", msg)
	}
}

func TestSequence_UserDisableOfRequired(t *testing.T) {
	modules := map[string]module.Module{"A": fakeModule{name: "A"}}
	dev := devConfig(config.ModuleEntry{Name: "A", Required: true})
	resolver := config.NewResolver(dev, nil)
	user := &config.UserConfig{DisabledModules: []string{"A"}}

	result, err := Sequence(modules, resolver, user, nil)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	if result.Resolutions[0].State != Enabled {
		t.Errorf("expected required module to stay ENABLED despite user disable, got %s", result.Resolutions[0].State)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(result.Warnings), result.Warnings)
	}
}

func TestSequence_MissingDependency(t *testing.T) {
	modules := map[string]module.Module{
		"A": fakeModule{name: "A", deps: []string{"Z"}},
	}
	dev := devConfig(config.ModuleEntry{Name: "A"})
	resolver := config.NewResolver(dev, nil)

	_, err := Sequence(modules, resolver, nil, nil)
	if err == nil {
		t.Fatal("expected a missing dependency error")
	}
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingDependencyError, got %T: %v", err, err)
	}
	if missing.Module != "A" || missing.Dependency != "Z" {
		t.Errorf("unexpected fields: %+v", missing)
	}
}

func TestSequence_CLIOverrideDominatesNonRequiredDisable(t *testing.T) {
	modules := map[string]module.Module{"A": fakeModule{name: "A"}}
	dev := devConfig(config.ModuleEntry{Name: "A"})
	resolver := config.NewResolver(dev, nil)
	user := &config.UserConfig{EnabledModules: []string{"A"}}
	cli := config.CLIOverrides{"A": false}

	result, err := Sequence(modules, resolver, user, cli)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	if result.Resolutions[0].State != Disabled {
		t.Errorf("expected CLI override to force DISABLED, got %s", result.Resolutions[0].State)
	}
}

func TestSequence_CLIForceDisableOfRequiredIsIgnoredWithWarning(t *testing.T) {
	modules := map[string]module.Module{"A": fakeModule{name: "A"}}
	dev := devConfig(config.ModuleEntry{Name: "A", Required: true})
	resolver := config.NewResolver(dev, nil)
	cli := config.CLIOverrides{"A": false}

	result, err := Sequence(modules, resolver, nil, cli)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	if result.Resolutions[0].State != Enabled {
		t.Errorf("expected required module to stay ENABLED, got %s", result.Resolutions[0].State)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(result.Warnings))
	}
}

func TestSequence_DisabledDependencyDemotesDependentToFailed(t *testing.T) {
	modules := map[string]module.Module{
		"A": fakeModule{name: "A"},
		"B": fakeModule{name: "B", deps: []string{"A"}},
	}
	dev := devConfig(
		config.ModuleEntry{Name: "A"},
		config.ModuleEntry{Name: "B", Required: true},
	)
	resolver := config.NewResolver(dev, nil)
	user := &config.UserConfig{DisabledModules: []string{"A"}}

	result, err := Sequence(modules, resolver, user, nil)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}

	var aState, bState State
	for _, res := range result.Resolutions {
		switch res.Name {
		case "A":
			aState = res.State
		case "B":
			bState = res.State
		}
	}
	if aState != Disabled {
		t.Errorf("expected A to be DISABLED, got %s", aState)
	}
	if bState != Failed {
		t.Errorf("expected B to be demoted to FAILED, got %s", bState)
	}
}

func TestSequence_PreviewModuleDefaultGatedOff(t *testing.T) {
	modules := map[string]module.Module{
		"experimental": fakeModule{name: "experimental", releaseStatus: module.Preview},
	}
	dev := devConfig(config.ModuleEntry{Name: "experimental"})
	resolver := config.NewResolver(dev, nil)

	t.Setenv("ADT_ENABLE_EXPERIMENTAL", "")

	result, err := Sequence(modules, resolver, nil, nil)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	if result.Resolutions[0].State != Disabled {
		t.Errorf("expected preview module to default to DISABLED, got %s", result.Resolutions[0].State)
	}
}

func TestSequence_PreviewModuleEnabledByEnvSignal(t *testing.T) {
	modules := map[string]module.Module{
		"experimental": fakeModule{name: "experimental", releaseStatus: module.Preview},
	}
	dev := devConfig(config.ModuleEntry{Name: "experimental"})
	resolver := config.NewResolver(dev, nil)

	t.Setenv("ADT_ENABLE_EXPERIMENTAL", "true")

	result, err := Sequence(modules, resolver, nil, nil)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	if result.Resolutions[0].State != Enabled {
		t.Errorf("expected preview module to be ENABLED via env signal, got %s", result.Resolutions[0].State)
	}
}
