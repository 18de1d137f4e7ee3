// SPDX-License-Identifier: Apache-2.0

// Package registry discovers the module implementations declared by the
// host packaging and instantiates them.
//
// The Python original walked setuptools entry points at runtime
// (importlib.metadata.entry_points, group "adt.modules"). Go has no
// equivalent dynamic discovery mechanism, so this package replaces it with
// an explicit, build-time registration table: a Factory is registered once,
// typically from an init() in the package that implements a given module,
// and Discover instantiates every registered factory.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rolfedh/adt-core/internal/module"
)

// Factory constructs a fresh module instance. Factories are registered once
// per process; Discover calls each factory exactly once.
type Factory func() module.Module

var (
	mu        sync.Mutex
	factories = map[string]Factory{}
	order     []string // registration order, as reported by Registered
)

// Register adds a module factory under the given provider name. It is
// intended to be called from package-level init() functions. A duplicate
// provider name overwrites the earlier registration at the factory-table
// level (this is a build-time wiring mistake, not a runtime duplicate-module
// condition — see Discover for that check).
func Register(providerName string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[providerName]; !exists {
		order = append(order, providerName)
	}
	factories[providerName] = factory
}

// Registered reports the provider names currently registered, in
// registration order. Exposed mainly for tests.
func Registered() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Discover instantiates every registered factory and returns the resulting
// modules keyed by each module's self-declared name. A provider that fails
// to construct a usable module (e.g. panics) is logged and skipped rather
// than aborting discovery for the rest. A duplicate self-declared module
// name is a configuration error: the earlier-discovered module wins and the
// later one is reported in the returned error list.
func Discover(logger *slog.Logger) (map[string]module.Module, []error) {
	mu.Lock()
	providerNames := make([]string, len(order))
	copy(providerNames, order)
	snapshot := make(map[string]Factory, len(factories))
	for k, v := range factories {
		snapshot[k] = v
	}
	mu.Unlock()

	// Providers are processed in provider-name order, not registration
	// order, so on a duplicate module name the provider whose name sorts
	// first is the one kept.
	sort.Strings(providerNames)

	modules := make(map[string]module.Module, len(providerNames))
	var errs []error

	for _, provider := range providerNames {
		factory, ok := snapshot[provider]
		if !ok {
			continue
		}
		inst, err := instantiate(factory)
		if err != nil {
			if logger != nil {
				logger.Error("module provider failed to load", "provider", provider, "error", err)
			}
			continue
		}
		name := inst.Name()
		if existing, dup := modules[name]; dup {
			errs = append(errs, fmt.Errorf("duplicate module name %q: provider %q shadowed by an earlier registration (keeping %T)", name, provider, existing))
			continue
		}
		modules[name] = inst
		if logger != nil {
			logger.Info("discovered module", "name", name, "version", inst.Version())
		}
	}

	return modules, errs
}

// instantiate calls factory, converting a panic into an error so one
// misbehaving provider cannot abort discovery of the rest.
func instantiate(factory Factory) (inst module.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module factory panicked: %v", r)
		}
	}()
	inst = factory()
	if inst == nil {
		return nil, fmt.Errorf("module factory returned nil")
	}
	return inst, nil
}
