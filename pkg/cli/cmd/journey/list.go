// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/internal/cliapp"
	"github.com/rolfedh/adt-core/pkg/cli/common/builder"
	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
)

func newListCmd() *cobra.Command {
	return (&builder.CommandBuilder{
		Command: constants.JourneyList,
		RunE: func(fg *builder.FlagGetter) error {
			app, err := cliapp.New(cliapp.Options{})
			if err != nil {
				return err
			}

			entries, err := app.Engine.Catalog.List()
			if err != nil {
				return err
			}

			// The catalog is a cache of the state store; reconcile it with
			// what's actually on disk before reporting so a catalog that
			// predates some workflows (or lost its file) still reports
			// everything the store has.
			names, err := app.Engine.Store.List()
			if err != nil {
				return err
			}
			if len(names) != len(entries) {
				if err := app.Engine.Catalog.Rebuild(names, app.Engine.Store.Load); err != nil {
					return err
				}
				entries, err = app.Engine.Catalog.List()
				if err != nil {
					return err
				}
			}

			if len(entries) == 0 {
				fmt.Println("no workflows found")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s\t%s\t%s\tlast activity %s\n", e.Name, e.Directory, e.Status, e.LastActivityAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}).Build()
}
