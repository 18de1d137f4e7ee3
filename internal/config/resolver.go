// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Resolver builds the effective per-module configuration by layering, in
// order of increasing precedence: global defaults < module entry config <
// user override. This generalizes the teacher's Loader.LoadWithDefaults
// precedence chain (struct defaults < file < env) to the spec's precedence
// chain over already-decoded maps.
type Resolver struct {
	dev  *DevConfig
	user *UserConfig
}

// NewResolver builds a Resolver over a loaded developer config and an
// optional (possibly zero-value) user config.
func NewResolver(dev *DevConfig, user *UserConfig) *Resolver {
	if user == nil {
		user = &UserConfig{}
	}
	return &Resolver{dev: dev, user: user}
}

// EffectiveConfig returns the merged configuration for the named module.
// Unknown module names yield the global defaults only (the Sequencer is
// responsible for rejecting unknown modules as a dependency error; the
// resolver itself never fails on a name it doesn't recognize).
func (r *Resolver) EffectiveConfig(moduleName string) (map[string]any, error) {
	k := koanf.New(".")

	if r.dev.GlobalConfig != nil {
		if err := k.Load(confmap.Provider(r.dev.GlobalConfig, "."), nil); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if entry, ok := r.moduleEntry(moduleName); ok && entry.Config != nil {
		if err := k.Load(confmap.Provider(entry.Config, "."), nil); err != nil {
			return nil, fmt.Errorf("loading config for module %q: %w", moduleName, err)
		}
	}

	if override, ok := r.user.ModuleOverrides[moduleName]; ok {
		if err := k.Load(confmap.Provider(override, "."), nil); err != nil {
			return nil, fmt.Errorf("loading user override for module %q: %w", moduleName, err)
		}
	}

	return k.Raw(), nil
}

// ModuleNames returns the developer-declared module names in declaration
// order. This is the node set the Sequencer builds its graph over.
func (r *Resolver) ModuleNames() []string {
	out := make([]string, len(r.dev.Modules))
	for i, m := range r.dev.Modules {
		out[i] = m.Name
	}
	return out
}

func (r *Resolver) moduleEntry(name string) (ModuleEntry, bool) {
	for _, m := range r.dev.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ModuleEntry{}, false
}

// IsRequired reports whether the named module is marked required in the
// developer config.
func (r *Resolver) IsRequired(name string) bool {
	entry, ok := r.moduleEntry(name)
	return ok && entry.Required
}

// AdditionalDependencies returns the developer-declared additional
// dependencies for the named module.
func (r *Resolver) AdditionalDependencies(name string) []string {
	entry, ok := r.moduleEntry(name)
	if !ok {
		return nil
	}
	return entry.AdditionalDependencies
}

// Gate returns the module entry's CEL gate expression, if any.
func (r *Resolver) Gate(name string) string {
	entry, _ := r.moduleEntry(name)
	return entry.Gate
}
