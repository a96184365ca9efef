// SPDX-License-Identifier: MPL-2.0

// Package hierarchy indexes a command tree and moves values between the tree
// and its three input surfaces: command-line tokens, interactive forms and
// nested namespaces.
//
// Nodes live in a flat arena addressed by NodeID. Each node records its
// parent, children and the child currently selected, so walking from the
// root to the chosen leaf and back is index arithmetic.
package hierarchy
