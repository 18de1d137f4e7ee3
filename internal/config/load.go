// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadDevConfig reads and validates the required developer configuration
// file. Both "the file does not exist" and "the JSON is malformed" are
// configuration errors, as is a document missing its required top-level
// fields.
func LoadDevConfig(path string) (*DevConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDevConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading developer config %s: %w", path, err)
	}

	var cfg DevConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, path, err)
	}

	if err := structValidator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDevConfig, err)
	}

	if errs := validateDevConfigStructure(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDevConfig, errs)
	}

	return &cfg, nil
}

// LoadUserConfig reads the optional user preference file. A missing file is
// normal and returns a zero-value UserConfig with no error; malformed JSON
// in a file that does exist is a configuration error.
func LoadUserConfig(path string) (*UserConfig, error) {
	if path == "" {
		return &UserConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserConfig{}, nil
		}
		return nil, fmt.Errorf("reading user config %s: %w", path, err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, path, err)
	}
	return &cfg, nil
}

// validateDevConfigStructure catches structural problems tag-based
// validation can't express: duplicate module names, and (defensively)
// entries with an empty name.
func validateDevConfigStructure(cfg *DevConfig) FieldErrors {
	var errs FieldErrors
	seen := make(map[string]int, len(cfg.Modules))
	for i, m := range cfg.Modules {
		if m.Name == "" {
			errs = append(errs, &FieldError{Field: fmt.Sprintf("modules[%d].name", i), Message: "must not be empty"})
			continue
		}
		if first, dup := seen[m.Name]; dup {
			errs = append(errs, &FieldError{
				Field:   fmt.Sprintf("modules[%d].name", i),
				Message: fmt.Sprintf("duplicate of modules[%d]: %q", first, m.Name),
			})
			continue
		}
		seen[m.Name] = i
	}
	return errs
}
