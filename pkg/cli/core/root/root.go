// SPDX-License-Identifier: Apache-2.0

// Package root assembles the adt root command.
package root

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolfedh/adt-core/internal/logging"
	"github.com/rolfedh/adt-core/pkg/cli/cmd/journey"
)

// BuildRootCmd constructs the root command, wiring the global --verbose and
// --log-file flags into a process-wide slog.Logger before any subcommand
// runs.
func BuildRootCmd() *cobra.Command {
	var verbose bool
	var logFile string

	cmd := &cobra.Command{
		Use:   "adt",
		Short: "Drive persistent documentation conversion workflows",
		Long:  "adt sequences and executes documentation conversion modules over a directory tree, tracking progress across runs.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.Config{Level: "info"}
			if verbose {
				cfg.Level = "debug"
			}
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				cfg.Output = f
			}
			slog.SetDefault(logging.New(cfg))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")

	cmd.AddCommand(journey.NewJourneyCmd())

	return cmd
}
