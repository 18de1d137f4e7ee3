// SPDX-License-Identifier: Apache-2.0

package sequencer

import (
	"fmt"
	"sort"

	"github.com/rolfedh/adt-core/internal/config"
	"github.com/rolfedh/adt-core/internal/module"
)

// Result is the sequencer's full output: one Resolution per known module
// plus any non-fatal warnings raised while applying enable/disable
// precedence.
type Result struct {
	Resolutions []Resolution
	Warnings    []Warning
}

// Sequence builds the dependency graph over every module named in the
// developer config, detects cycles, orders it deterministically, and
// resolves each module's enable/disable state by precedence: CLI override >
// required-in-dev-config > user-enable > user-disable > default (subject to
// preview-release gating).
//
// modules holds the module instances the registry discovered, keyed by
// name; a dev-config entry naming a module the registry never discovered is
// still a graph node (its own declared dependencies are then unknown and
// treated as empty; only its additional_dependencies apply).
func Sequence(modules map[string]module.Module, resolver *config.Resolver, user *config.UserConfig, cli config.CLIOverrides) (*Result, error) {
	if user == nil {
		user = &config.UserConfig{}
	}
	if cli == nil {
		cli = config.CLIOverrides{}
	}

	names := resolver.ModuleNames()

	dependenciesOf := func(name string) []string {
		var own []string
		if inst, ok := modules[name]; ok {
			own = inst.Dependencies()
		}
		return unionSorted(own, resolver.AdditionalDependencies(name))
	}

	g, err := buildGraph(names, dependenciesOf)
	if err != nil {
		return nil, err
	}

	if cycle := g.detectCycle(); cycle != nil {
		return nil, &CircularDependencyError{Cycle: cycle}
	}

	order := g.topoSort()

	userEnabled := toSet(user.EnabledModules)
	userDisabled := toSet(user.DisabledModules)

	states := make(map[string]State, len(order))
	errMsgs := make(map[string]string, len(order))
	var warnings []Warning

	for _, name := range order {
		required := resolver.IsRequired(name)
		releaseStatus := module.GA
		if inst, ok := modules[name]; ok {
			releaseStatus = inst.ReleaseStatus()
		}

		state, warns, err := resolveState(name, required, releaseStatus, cli, userEnabled, userDisabled, resolver.Gate(name))
		if err != nil {
			return nil, err
		}
		states[name] = state
		warnings = append(warnings, warns...)
	}

	// Transitive-closure pass: a dependency processed earlier in topo order
	// that ended up DISABLED or FAILED demotes its dependents to FAILED.
	for _, name := range order {
		if states[name] != Enabled {
			continue
		}
		for _, dep := range g.deps[name] {
			if states[dep] != Enabled {
				states[name] = Failed
				errMsgs[name] = fmt.Sprintf("dependency %q is %s", dep, states[dep])
				break
			}
		}
	}

	resolutions := make([]Resolution, 0, len(order))
	initOrder := 0
	for _, name := range order {
		state := states[name]

		effCfg, err := resolver.EffectiveConfig(name)
		if err != nil {
			return nil, fmt.Errorf("resolving effective config for module %q: %w", name, err)
		}

		version := ""
		if inst, ok := modules[name]; ok {
			version = inst.Version()
		}

		idx := -1
		if state == Enabled {
			idx = initOrder
			initOrder++
		}

		resolutions = append(resolutions, Resolution{
			Name:                 name,
			State:                state,
			Version:              version,
			ResolvedDependencies: sortedCopy(g.deps[name]),
			InitOrder:            idx,
			EffectiveConfig:      effCfg,
			ErrorMessage:         errMsgs[name],
		})
	}

	return &Result{Resolutions: resolutions, Warnings: warnings}, nil
}

// EnabledOrder returns the names of ENABLED resolutions in init order.
func (r *Result) EnabledOrder() []string {
	byOrder := make([]Resolution, 0, len(r.Resolutions))
	for _, res := range r.Resolutions {
		if res.State == Enabled {
			byOrder = append(byOrder, res)
		}
	}
	sort.Slice(byOrder, func(i, j int) bool { return byOrder[i].InitOrder < byOrder[j].InitOrder })

	names := make([]string, len(byOrder))
	for i, res := range byOrder {
		names[i] = res.Name
	}
	return names
}

func resolveState(
	name string,
	required bool,
	releaseStatus module.ReleaseStatus,
	cli config.CLIOverrides,
	userEnabled, userDisabled map[string]bool,
	gate string,
) (State, []Warning, error) {
	if v, ok := cli[name]; ok {
		if !v && required {
			return Enabled, []Warning{{Module: name, Message: "CLI force-disable of a required module was ignored; module stays enabled"}}, nil
		}
		if v {
			return Enabled, nil, nil
		}
		return Disabled, nil, nil
	}

	if required {
		if userDisabled[name] {
			return Enabled, []Warning{{Module: name, Message: "required module cannot be disabled by user config; ignoring disable"}}, nil
		}
		return Enabled, nil, nil
	}

	if userEnabled[name] {
		return Enabled, nil, nil
	}
	if userDisabled[name] {
		return Disabled, nil, nil
	}

	if releaseStatus == module.Preview {
		enabled, err := evaluateGate(name, string(releaseStatus), gate)
		if err != nil {
			return "", nil, err
		}
		if !enabled {
			return Disabled, nil, nil
		}
	}

	return Enabled, nil, nil
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func unionSorted(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		set[v] = true
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
