// SPDX-License-Identifier: Apache-2.0

package constants

// Command describes a cobra command's static identity: the pieces the
// builder package needs before any flag or RunE is attached.
type Command struct {
	Use     string
	Aliases []string
	Short   string
	Long    string
	Example string
}
