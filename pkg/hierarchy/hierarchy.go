// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"slices"
	"strings"

	"github.com/invowk/argtree/pkg/command"
)

// NoNode marks the absence of a node.
const NoNode NodeID = -1

type (
	// NodeID addresses a node of a Hierarchy.
	NodeID int

	node struct {
		cmd      *command.Command
		parent   NodeID
		children []NodeID
		byName   map[string]NodeID
		selected NodeID
	}

	// Hierarchy is an index over a command tree. It is built once per run
	// and is not safe for concurrent use.
	Hierarchy struct {
		nodes []node
		index map[*command.Command]NodeID
	}
)

// Build indexes root and every descendant in depth-first order, so the root
// is node 0 and parents precede their children.
func Build(root *command.Command) *Hierarchy {
	h := &Hierarchy{index: make(map[*command.Command]NodeID)}
	h.add(root, NoNode)
	return h
}

func (h *Hierarchy) add(cmd *command.Command, parent NodeID) NodeID {
	id := NodeID(len(h.nodes))
	h.nodes = append(h.nodes, node{
		cmd:      cmd,
		parent:   parent,
		byName:   make(map[string]NodeID),
		selected: NoNode,
	})
	h.index[cmd] = id
	for _, child := range cmd.Subcommands() {
		cid := h.add(child, id)
		h.nodes[id].children = append(h.nodes[id].children, cid)
		h.nodes[id].byName[child.Name()] = cid
	}
	return id
}

// Root returns the root node.
func (h *Hierarchy) Root() NodeID { return 0 }

// Len returns the number of nodes.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// Command returns the command of a node.
func (h *Hierarchy) Command(id NodeID) *command.Command { return h.nodes[id].cmd }

// Lookup returns the node of a command.
func (h *Hierarchy) Lookup(cmd *command.Command) (NodeID, bool) {
	id, ok := h.index[cmd]
	return id, ok
}

// Parent returns the parent of a node, or NoNode for the root.
func (h *Hierarchy) Parent(id NodeID) NodeID { return h.nodes[id].parent }

// Children returns the children of a node in declaration order.
func (h *Hierarchy) Children(id NodeID) []NodeID { return slices.Clone(h.nodes[id].children) }

// Child returns the child of a node with the given name.
func (h *Hierarchy) Child(id NodeID, name string) (NodeID, bool) {
	c, ok := h.nodes[id].byName[name]
	return c, ok
}

// IsLeaf reports whether a node has no children.
func (h *Hierarchy) IsLeaf(id NodeID) bool { return len(h.nodes[id].children) == 0 }

// Lineage returns the nodes from the root down to id.
func (h *Hierarchy) Lineage(id NodeID) []NodeID {
	var out []NodeID
	for n := id; n != NoNode; n = h.nodes[n].parent {
		out = append(out, n)
	}
	slices.Reverse(out)
	return out
}

// Path returns the command names from the root down to id.
func (h *Hierarchy) Path(id NodeID) []string {
	lineage := h.Lineage(id)
	out := make([]string, len(lineage))
	for i, n := range lineage {
		out[i] = h.nodes[n].cmd.Name()
	}
	return out
}

// PathString returns Path joined with dots.
func (h *Hierarchy) PathString(id NodeID) string {
	return strings.Join(h.Path(id), ".")
}

// Select marks every node on the path to id as the selected child of its
// parent, and clears the selection below id.
func (h *Hierarchy) Select(id NodeID) {
	h.nodes[id].selected = NoNode
	for n := id; h.nodes[n].parent != NoNode; n = h.nodes[n].parent {
		h.nodes[h.nodes[n].parent].selected = n
	}
}

// Selected returns the selected child of a node, or NoNode.
func (h *Hierarchy) Selected(id NodeID) NodeID { return h.nodes[id].selected }

// ActiveLeaf follows the selected child from the root until a node with no
// selection. It returns a non-leaf node when selection stops early.
func (h *Hierarchy) ActiveLeaf() NodeID {
	n := h.Root()
	for h.nodes[n].selected != NoNode {
		n = h.nodes[n].selected
	}
	return n
}

// Reset discards every assigned value and selection.
func (h *Hierarchy) Reset() {
	for i := range h.nodes {
		h.nodes[i].selected = NoNode
		for _, a := range h.nodes[i].cmd.Arguments() {
			a.Reset()
		}
	}
}
