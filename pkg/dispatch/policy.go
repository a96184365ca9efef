// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"github.com/invowk/argtree/pkg/command"
)

// Resolve returns the strategy for a run mode. Only RunModeSmart looks at
// the call: supplied values or an embedded host give RunModeProgrammatic,
// no tokens give RunModeGUI, and otherwise RunModeCommandLine.
func Resolve(mode command.RunMode, values command.Namespace, tokens []string, embedded bool) command.RunMode {
	if mode != command.RunModeSmart && mode != "" {
		return mode
	}
	switch {
	case len(values) > 0 || embedded:
		return command.RunModeProgrammatic
	case len(tokens) == 0:
		return command.RunModeGUI
	default:
		return command.RunModeCommandLine
	}
}

// requestedMode applies the override, the root's declared mode and the
// configured default, in that order. RunModeSmart on the root defers to the
// configured default.
func (o *options) requestedMode(root *command.Command) command.RunMode {
	switch {
	case o.mode != "":
		return o.mode
	case root.RunMode() != command.RunModeSmart && root.RunMode() != "":
		return root.RunMode()
	case o.defaultMode != "":
		return o.defaultMode
	default:
		return command.RunModeSmart
	}
}
