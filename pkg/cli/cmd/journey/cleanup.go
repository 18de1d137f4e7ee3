// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/internal/cliapp"
	"github.com/rolfedh/adt-core/internal/engine"
	"github.com/rolfedh/adt-core/pkg/cli/common/builder"
	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
	"github.com/rolfedh/adt-core/pkg/cli/flags"
)

func newCleanupCmd() *cobra.Command {
	return (&builder.CommandBuilder{
		Command: constants.JourneyCleanup,
		Flags:   []flags.Flag{flags.Name, flags.Completed, flags.All, flags.Confirm},
		RunE: func(fg *builder.FlagGetter) error {
			app, err := cliapp.New(cliapp.Options{})
			if err != nil {
				return err
			}

			name := fg.GetString(flags.Name)
			completed := fg.GetBool(flags.Completed)
			all := fg.GetBool(flags.All)
			confirm := fg.GetBool(flags.Confirm)

			switch {
			case name != "":
				if err := app.Engine.CleanupWorkflow(name); err != nil {
					return err
				}
				fmt.Printf("removed workflow %q\n", name)
				return nil

			case completed:
				removed, err := app.Engine.CleanupCompleted(confirm)
				return reportCleanup(removed, err)

			case all:
				removed, err := app.Engine.CleanupAll(confirm)
				return reportCleanup(removed, err)

			default:
				return fmt.Errorf("specify one of --name, --completed, or --all")
			}
		},
	}).Build()
}

func reportCleanup(removed []string, err error) error {
	if errors.Is(err, engine.ErrConfirmationRequired) {
		return fmt.Errorf("%w: pass --confirm to proceed", err)
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Println("nothing to remove")
		return nil
	}
	fmt.Printf("removed %d workflow(s): %v\n", len(removed), removed)
	return nil
}
