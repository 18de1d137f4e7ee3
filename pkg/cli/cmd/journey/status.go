// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/internal/cliapp"
	"github.com/rolfedh/adt-core/internal/workflow"
	"github.com/rolfedh/adt-core/pkg/cli/common/builder"
	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
	"github.com/rolfedh/adt-core/pkg/cli/flags"
)

func newStatusCmd() *cobra.Command {
	return (&builder.CommandBuilder{
		Command: constants.JourneyStatus,
		Flags:   []flags.Flag{flags.Name},
		RunE: func(fg *builder.FlagGetter) error {
			app, err := cliapp.New(cliapp.Options{})
			if err != nil {
				return err
			}

			if name := fg.GetString(flags.Name); name != "" {
				state, err := app.Engine.Store.Load(name)
				if err != nil {
					return err
				}
				printProgress(name, workflow.ComputeProgress(state))
				return nil
			}

			names, err := app.Engine.Store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no workflows found")
				return nil
			}
			for _, name := range names {
				state, err := app.Engine.Store.Load(name)
				if err != nil {
					app.Logger.Warn("skipping unreadable workflow", "workflow", name, "error", err)
					continue
				}
				printProgress(name, workflow.ComputeProgress(state))
			}
			return nil
		},
	}).Build()
}

func printProgress(name string, p workflow.Progress) {
	fmt.Printf("%s: %d/%d modules complete (%.0f%%), current=%s, files processed=%d modified=%d\n",
		name, p.CompletedModules, p.TotalModules, p.CompletionPercentage, currentOrNone(p.CurrentModule), p.ProcessedFiles, p.ModifiedFiles)
}

func currentOrNone(current string) string {
	if current == "" {
		return "none"
	}
	return current
}
