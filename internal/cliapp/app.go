// SPDX-License-Identifier: Apache-2.0

// Package cliapp wires the core components (registry, config, sequencer,
// store, catalog, engine) into the concrete App the CLI commands drive. It
// is the composition root: cobra commands stay thin and call through App.
package cliapp

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rolfedh/adt-core/internal/catalog"
	"github.com/rolfedh/adt-core/internal/config"
	"github.com/rolfedh/adt-core/internal/engine"
	"github.com/rolfedh/adt-core/internal/module"
	"github.com/rolfedh/adt-core/internal/registry"
	"github.com/rolfedh/adt-core/internal/store"
)

const (
	// DefaultDevConfigPath is the well-known developer config location.
	DefaultDevConfigPath = ".adt-modules.json"
	// DefaultUserConfigPath is the well-known user preference location.
	DefaultUserConfigPath = ".adt-user.json"
	catalogFilename       = "catalog.db"
)

// App bundles everything a journey command needs.
type App struct {
	Engine   *engine.Engine
	Resolver *config.Resolver
	User     *config.UserConfig
	Modules  map[string]module.Module
	Logger   *slog.Logger
}

// Options configures App construction; zero-value Options resolves every
// path from well-known defaults.
type Options struct {
	DevConfigPath  string
	UserConfigPath string
	StoreDir       string
	Logger         *slog.Logger
}

// New loads configuration, discovers registered modules, and opens the
// state store and catalog, returning a ready-to-use App.
func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	devPath := opts.DevConfigPath
	if devPath == "" {
		devPath = DefaultDevConfigPath
	}
	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = DefaultUserConfigPath
	}

	dev, err := config.LoadDevConfig(devPath)
	if err != nil {
		return nil, err
	}
	user, err := config.LoadUserConfig(userPath)
	if err != nil {
		return nil, err
	}
	resolver := config.NewResolver(dev, user)

	modules, discoverErrs := registry.Discover(opts.Logger)
	for _, e := range discoverErrs {
		opts.Logger.Warn("module discovery issue", "error", e)
	}

	storeDir := opts.StoreDir
	if storeDir == "" {
		storeDir, err = store.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	st, err := store.New(storeDir, opts.Logger)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Open(filepath.Join(storeDir, catalogFilename))
	if err != nil {
		return nil, fmt.Errorf("opening workflow catalog: %w", err)
	}

	return &App{
		Engine:   engine.New(st, cat, opts.Logger),
		Resolver: resolver,
		User:     user,
		Modules:  modules,
		Logger:   opts.Logger,
	}, nil
}
