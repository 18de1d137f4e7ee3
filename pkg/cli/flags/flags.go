// SPDX-License-Identifier: Apache-2.0

// Package flags declares the CLI's flag vocabulary as reusable Flag values,
// shared between command definitions in pkg/cli/cmd and the builder that
// wires them onto a cobra.Command.
package flags

import "github.com/spf13/cobra"

// Flag describes one cobra flag: its name, optional shorthand, help text,
// and value type ("bool" or the string default).
type Flag struct {
	Name      string
	Shorthand string
	Usage     string
	Type      string
}

var (
	Name = Flag{
		Name:      "name",
		Shorthand: "n",
		Usage:     "Workflow name",
	}

	Directory = Flag{
		Name:      "directory",
		Shorthand: "d",
		Usage:     "Target directory the workflow runs over",
	}

	Completed = Flag{
		Name:  "completed",
		Usage: "Select every completed workflow",
		Type:  "bool",
	}

	All = Flag{
		Name:  "all",
		Usage: "Select every workflow",
		Type:  "bool",
	}

	Confirm = Flag{
		Name:  "confirm",
		Usage: "Confirm a destructive bulk operation",
		Type:  "bool",
	}
)

// AddFlags adds the specified flags to the given command.
func AddFlags(cmd *cobra.Command, flags ...Flag) {
	for _, flag := range flags {
		if flag.Type == "bool" {
			cmd.Flags().BoolP(flag.Name, flag.Shorthand, false, flag.Usage)
		} else {
			cmd.Flags().StringP(flag.Name, flag.Shorthand, "", flag.Usage)
		}
	}
}
