// SPDX-License-Identifier: Apache-2.0

// Package builder assembles cobra.Command values from a declarative
// description: a Command definition, the flags it accepts, and a RunE that
// reads flags through a FlagGetter instead of repeating
// cmd.Flags().GetString(...) boilerplate at every call site.
package builder

import (
	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
	"github.com/rolfedh/adt-core/pkg/cli/flags"
)

// FlagGetter reads typed flag values off a cobra.Command, ignoring the
// per-flag error: a flag declared via CommandBuilder.Flags is always
// present on the command it was built for.
type FlagGetter struct {
	cmd *cobra.Command
}

func (g *FlagGetter) GetString(f flags.Flag) string {
	v, _ := g.cmd.Flags().GetString(f.Name)
	return v
}

func (g *FlagGetter) GetBool(f flags.Flag) bool {
	v, _ := g.cmd.Flags().GetBool(f.Name)
	return v
}

func (g *FlagGetter) GetStringArray(f flags.Flag) []string {
	v, _ := g.cmd.Flags().GetStringArray(f.Name)
	return v
}

func (g *FlagGetter) Changed(f flags.Flag) bool {
	return g.cmd.Flags().Changed(f.Name)
}

// CommandBuilder declares a leaf cobra command: its identity, the flags it
// accepts, and the handlers that run it.
type CommandBuilder struct {
	Command constants.Command
	Flags   []flags.Flag
	Args    cobra.PositionalArgs
	PreRunE func(cmd *cobra.Command, args []string) error
	RunE    func(fg *FlagGetter) error
}

// Build constructs the cobra.Command described by b.
func (b *CommandBuilder) Build() *cobra.Command {
	cmd := &cobra.Command{
		Use:     b.Command.Use,
		Aliases: b.Command.Aliases,
		Short:   b.Command.Short,
		Long:    b.Command.Long,
		Example: b.Command.Example,
		Args:    b.Args,
	}

	if b.PreRunE != nil {
		cmd.PreRunE = b.PreRunE
	}

	if b.RunE != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return b.RunE(&FlagGetter{cmd: cmd})
		}
	}

	flags.AddFlags(cmd, b.Flags...)

	return cmd
}
