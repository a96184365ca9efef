// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and markdown help for the failure
// classes users of argtree run into: bad input values, violated argument
// relations, ambiguous subcommand choices, and broken config or saved state.
package issue
