// SPDX-License-Identifier: Apache-2.0

package constants

import "fmt"

const DefaultCLIName = "adt"

var Journey = Command{
	Use:   "journey",
	Short: "Manage documentation conversion workflows",
	Long:  "Create, resume, step through, inspect, and clean up persistent documentation conversion workflows.",
}

var JourneyStart = Command{
	Use:   "start",
	Short: "Start a new workflow over a directory",
	Long:  "Plan the enabled module order for a new workflow and persist its initial state.",
	Example: fmt.Sprintf(`  # Start a workflow named "release-notes" over ./docs
  %[1]s journey start --name release-notes --directory ./docs`, DefaultCLIName),
}

var JourneyResume = Command{
	Use:   "resume",
	Short: "Load a workflow and print its current status",
	Long:  "Load a previously created workflow from the state store without re-planning its module order.",
	Example: fmt.Sprintf(`  # Resume and inspect "release-notes"
  %[1]s journey resume --name release-notes`, DefaultCLIName),
}

var JourneyContinue = Command{
	Use:   "continue",
	Short: "Execute the next module in a workflow",
	Long:  "Run a single execute_next step: the next pending or failed module in the workflow's planned order.",
	Example: fmt.Sprintf(`  # Advance "release-notes" by one module
  %[1]s journey continue --name release-notes`, DefaultCLIName),
}

var JourneyStatus = Command{
	Use:   "status",
	Short: "Show workflow progress",
	Long:  "Print progress for a single workflow, or every known workflow when --name is omitted.",
	Example: fmt.Sprintf(`  # Status of one workflow
  %[1]s journey status --name release-notes

  # Status of every workflow
  %[1]s journey status`, DefaultCLIName),
}

var JourneyList = Command{
	Use:   "list",
	Short: "List known workflows",
	Long:  "Enumerate every workflow name with a one-line summary, drawn from the workflow catalog.",
}

var JourneyCleanup = Command{
	Use:   "cleanup",
	Short: "Remove workflow state",
	Long: fmt.Sprintf(`Remove a single workflow, every completed workflow, or every workflow.
Bulk removal requires --confirm.

Examples:
  # Remove one workflow
  %[1]s journey cleanup --name release-notes

  # Remove every completed workflow
  %[1]s journey cleanup --completed --confirm`, DefaultCLIName),
}
