// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"github.com/invowk/argtree/pkg/command"
)

// Assemble builds the nested namespace for the path from the root to id.
// Each level holds its own argument values plus, under the child's name,
// the namespace of the next level.
func (h *Hierarchy) Assemble(id NodeID) command.Namespace {
	lineage := h.Lineage(id)
	outer := h.Command(lineage[0]).Namespace()
	current := outer
	for _, n := range lineage[1:] {
		sub := h.Command(n).Namespace()
		current[h.Command(n).Name()] = sub
		current = sub
	}
	return outer
}

// PopulateNode assigns the values in ns to the arguments of one node.
// Missing keys are skipped. The first conversion failure is returned.
func (h *Hierarchy) PopulateNode(id NodeID, ns command.Namespace) error {
	for _, a := range h.Command(id).Arguments() {
		raw, ok := ns[a.Name()]
		if !ok {
			continue
		}
		if err := a.SetValue(raw); err != nil {
			return err
		}
	}
	return nil
}

// Populate walks ns alongside the path from the root to id and assigns each
// level's values. It stops quietly when a level has no nested namespace for
// the next node.
func (h *Hierarchy) Populate(id NodeID, ns command.Namespace) error {
	lineage := h.Lineage(id)
	current := ns
	for i, n := range lineage {
		if i > 0 {
			sub, ok := current.Sub(h.Command(n).Name())
			if !ok {
				return nil
			}
			current = sub
		}
		if err := h.PopulateNode(n, current); err != nil {
			return err
		}
	}
	return nil
}

// ChooseNode descends from the root following the single subcommand key
// present at each level of ns. More than one key at a level is an error.
// No key at a non-leaf level stops the descent, or is an error when strict.
func (h *Hierarchy) ChooseNode(ns command.Namespace, strict bool) (NodeID, error) {
	current := h.Root()
	level := ns
	for !h.IsLeaf(current) {
		var found []string
		for _, c := range h.nodes[current].children {
			name := h.Command(c).Name()
			if _, ok := level[name]; ok {
				found = append(found, name)
			}
		}
		switch len(found) {
		case 0:
			if strict {
				return NoNode, h.ambiguous(current, nil)
			}
			return current, nil
		case 1:
			next, ok := level.Sub(found[0])
			if !ok {
				next = command.Namespace{}
			}
			current = h.nodes[current].byName[found[0]]
			level = next
		default:
			return NoNode, h.ambiguous(current, found)
		}
	}
	return current, nil
}

func (h *Hierarchy) ambiguous(id NodeID, found []string) error {
	var options []string
	for _, c := range h.nodes[id].children {
		options = append(options, h.Command(c).Name())
	}
	return &AmbiguousSubcommandError{Command: h.PathString(id), Options: options, Found: found}
}

// CheckRequired returns the first missing required argument on the path
// from the root to id.
func (h *Hierarchy) CheckRequired(id NodeID) error {
	for _, n := range h.Lineage(id) {
		if err := h.Command(n).CheckRequired(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDependencies checks argument dependencies from id up to the root.
func (h *Hierarchy) ValidateDependencies(id NodeID) error {
	for n := id; n != NoNode; n = h.nodes[n].parent {
		if err := h.Command(n).ValidateDependencies(); err != nil {
			return err
		}
	}
	return nil
}

// PostValidate checks group constraints from the root down to id.
func (h *Hierarchy) PostValidate(id NodeID) error {
	for _, n := range h.Lineage(id) {
		if err := h.Command(n).PostValidate(); err != nil {
			return err
		}
	}
	return nil
}
