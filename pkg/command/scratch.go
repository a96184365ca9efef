// SPDX-License-Identifier: MPL-2.0

package command

import (
	"maps"
	"slices"
)

// Scratch is a mutable store shared by every command of one tree, for
// callbacks to pass state down the chain. It is not safe for concurrent use.
type Scratch struct {
	values map[string]any
}

// Get returns the value stored under key.
func (s *Scratch) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *Scratch) Set(key string, v any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = v
}

// Delete removes key.
func (s *Scratch) Delete(key string) {
	delete(s.values, key)
}

// Keys returns the sorted keys.
func (s *Scratch) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}
