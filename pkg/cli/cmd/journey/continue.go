// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/internal/cliapp"
	"github.com/rolfedh/adt-core/pkg/cli/common/builder"
	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
	"github.com/rolfedh/adt-core/pkg/cli/flags"
)

func newContinueCmd() *cobra.Command {
	return (&builder.CommandBuilder{
		Command: constants.JourneyContinue,
		Flags:   []flags.Flag{flags.Name},
		RunE: func(fg *builder.FlagGetter) error {
			name := fg.GetString(flags.Name)
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			app, err := cliapp.New(cliapp.Options{})
			if err != nil {
				return err
			}

			ctx := context.Background()
			wf, err := app.Engine.ResumeWorkflow(ctx, name, app.Modules, app.Resolver)
			if err != nil {
				return err
			}

			outcome, err := app.Engine.ExecuteNext(ctx, wf)
			if err != nil {
				return err
			}

			if outcome.Done {
				fmt.Printf("workflow %q is complete\n", name)
				return nil
			}

			fmt.Printf("module %q finished with status %s\n", outcome.Module, outcome.Result.Status)
			return nil
		},
	}).Build()
}
