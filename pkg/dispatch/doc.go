// SPDX-License-Identifier: MPL-2.0

// Package dispatch runs one collection cycle over a command tree.
//
// Process picks a run mode, collects values through the matching strategy
// (command-line tokens, an interactive form, or supplied values), stores the
// assembled namespace as the latest snapshot of the chosen command, checks
// dependencies and groups, then runs callbacks from the root down to the
// chosen command:
//
//	res, err := dispatch.Process(ctx, root,
//		dispatch.WithArgs(os.Args[1:]),
//		dispatch.WithStore(store.New(dir)),
//	)
//
// In RunModeSmart the mode follows from the call: supplied values or an
// embedded host select programmatic input, no command-line tokens select the
// form, and anything else is parsed as a command line.
package dispatch
