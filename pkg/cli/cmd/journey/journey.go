// SPDX-License-Identifier: Apache-2.0

// Package journey implements the `journey` subcommand tree: start, resume,
// continue, status, list, and cleanup, the CLI surface described in the
// external interfaces section of the core specification.
package journey

import (
	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/pkg/cli/common/constants"
)

// NewJourneyCmd assembles the journey command tree.
func NewJourneyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   constants.Journey.Use,
		Short: constants.Journey.Short,
		Long:  constants.Journey.Long,
	}

	cmd.AddCommand(
		newStartCmd(),
		newResumeCmd(),
		newContinueCmd(),
		newStatusCmd(),
		newListCmd(),
		newCleanupCmd(),
	)

	return cmd
}
