// SPDX-License-Identifier: Apache-2.0

package sequencer

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/cel-go/cel"
)

// gateEnv is the CEL environment a preview-module gate expression evaluates
// in. It exposes two variables: env, a map of environment variable values
// (copied in full from os.Environ on every evaluation), and module, the
// module's own identity fields relevant to gating.
var gateEnv = mustBuildGateEnv()

func mustBuildGateEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("env", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("module", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("sequencer: building gate CEL environment: %v", err))
	}
	return env
}

// evaluateGate compiles and runs a preview module's gate expression. A
// missing expression defaults to the legacy ADT_ENABLE_<UPPER_SNAKE_NAME>
// environment variable, equivalent to the CEL expression
// `env.ADT_ENABLE_<NAME> == "true"`.
func evaluateGate(moduleName, releaseStatus, expr string) (bool, error) {
	if expr == "" {
		expr = fmt.Sprintf("env.ADT_ENABLE_%s == \"true\"", envKeyFor(moduleName))
	}

	ast, issues := gateEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compiling gate expression for module %q: %w", moduleName, issues.Err())
	}

	program, err := gateEnv.Program(ast)
	if err != nil {
		return false, fmt.Errorf("building gate program for module %q: %w", moduleName, err)
	}

	out, _, err := program.Eval(map[string]any{
		"env":    environAsMap(),
		"module": map[string]any{"name": moduleName, "release_status": releaseStatus},
	})
	if err != nil {
		return false, fmt.Errorf("evaluating gate expression for module %q: %w", moduleName, err)
	}

	enabled, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("gate expression for module %q did not evaluate to a boolean", moduleName)
	}
	return enabled, nil
}

// envKeyFor converts a module name like "html-converter" into the
// environment-variable-safe form HTML_CONVERTER.
func envKeyFor(moduleName string) string {
	replaced := strings.NewReplacer("-", "_", " ", "_").Replace(moduleName)
	return strings.ToUpper(replaced)
}

func environAsMap() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}
