// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/rolfedh/adt-core/pkg/cli/core/root"
)

func main() {
	rootCmd := root.BuildRootCmd()
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
