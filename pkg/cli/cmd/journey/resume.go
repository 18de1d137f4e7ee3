// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/internal/cliapp"
	"github.com/rolfedh/adt-core/internal/workflow"
	"github.com/rolfedh/adt-core/pkg/cli/common/builder"
	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
	"github.com/rolfedh/adt-core/pkg/cli/flags"
)

func newResumeCmd() *cobra.Command {
	return (&builder.CommandBuilder{
		Command: constants.JourneyResume,
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

			wf, err := app.Engine.ResumeWorkflow(context.Background(), name, app.Modules, app.Resolver)
			if err != nil {
				return err
			}

			printProgress(wf.State.Name, workflow.ComputeProgress(wf.State))
			return nil
		},
	}).Build()
}
