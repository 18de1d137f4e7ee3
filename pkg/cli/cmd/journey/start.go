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

func newStartCmd() *cobra.Command {
	return (&builder.CommandBuilder{
		Command: constants.JourneyStart,
		Flags:   []flags.Flag{flags.Name, flags.Directory},
		RunE: func(fg *builder.FlagGetter) error {
			name := fg.GetString(flags.Name)
			directory := fg.GetString(flags.Directory)
			if name == "" || directory == "" {
				return fmt.Errorf("--name and --directory are required")
			}

			app, err := cliapp.New(cliapp.Options{})
			if err != nil {
				return err
			}

			wf, err := app.Engine.StartWorkflow(context.Background(), name, directory, app.Modules, app.Resolver, app.User, nil)
			if err != nil {
				return err
			}

			fmt.Printf("started workflow %q over %s with %d module(s) planned\n", wf.State.Name, wf.State.Directory, len(wf.State.ModuleOrder))
			return nil
		},
	}).Build()
}
