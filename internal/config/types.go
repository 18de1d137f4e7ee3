// SPDX-License-Identifier: Apache-2.0

// Package config loads and resolves the three configuration layers the
// Sequencer consumes: developer config (required), user preferences
// (optional), and CLI overrides (enable/disable only, carried by the
// caller rather than a file).
package config

// DevConfig is the developer-authored configuration: `{version, modules,
// global_config}`. It declares every module known to the host and is
// required — a missing or malformed developer config is a configuration
// error.
type DevConfig struct {
	Version      string         `json:"version" validate:"required"`
	Modules      []ModuleEntry  `json:"modules" validate:"required,dive"`
	GlobalConfig map[string]any `json:"global_config,omitempty"`
}

// ModuleEntry is one developer-declared module.
type ModuleEntry struct {
	Name                   string         `json:"name" validate:"required"`
	Required               bool           `json:"required,omitempty"`
	AdditionalDependencies []string       `json:"additional_dependencies,omitempty"`
	Config                 map[string]any `json:"config,omitempty"`
	// Gate is an optional CEL boolean expression gating a preview module;
	// see internal/sequencer/gate.go.
	Gate string `json:"gate,omitempty"`
}

// UserConfig is the optional, user-authored preference file.
type UserConfig struct {
	Version         string                    `json:"version,omitempty"`
	EnabledModules  []string                  `json:"enabledModules,omitempty"`
	DisabledModules []string                  `json:"disabledModules,omitempty"`
	ModuleOverrides map[string]map[string]any `json:"moduleOverrides,omitempty"`
}

// CLIOverrides maps module name to a forced enable (true) / disable (false)
// decision. It never modifies config, only the enable/disable decision.
type CLIOverrides map[string]bool
