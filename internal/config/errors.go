// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrDevConfigNotFound is returned when the required developer config
	// file does not exist.
	ErrDevConfigNotFound = errors.New("developer config file not found")
	// ErrMalformedJSON is returned when a config document is not valid JSON.
	ErrMalformedJSON = errors.New("malformed configuration JSON")
	// ErrInvalidDevConfig is returned when a well-formed developer config
	// document is missing required fields or contains a structural error
	// (e.g. duplicate module names).
	ErrInvalidDevConfig = errors.New("invalid developer configuration")
)

// FieldError reports a validation failure at a specific config path, e.g.
// "modules[2].name: must not be empty".
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors collects multiple FieldErrors into one error value.
type FieldErrors []*FieldError

func (fe FieldErrors) Error() string {
	s := ""
	for i, e := range fe {
		if i > 0 {
			s += "; "
		}
		s += e.Error()
	}
	return s
}

// OrNil returns nil if there are no errors, otherwise the FieldErrors value.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
