// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"maps"
	"slices"
)

// Namespace maps argument names to values. A subcommand's values appear as a
// nested Namespace under the subcommand name.
type Namespace map[string]any

// AsNamespace accepts a Namespace, a map[string]any, or a map[any]any whose
// keys are all strings.
func AsNamespace(v any) (Namespace, bool) {
	switch m := v.(type) {
	case Namespace:
		return m, true
	case map[string]any:
		return Namespace(m), true
	case map[any]any:
		ns := make(Namespace, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			ns[s] = val
		}
		return ns, true
	default:
		return nil, false
	}
}

// Sub returns the nested namespace stored under name. It reports false when
// the key is absent or holds something other than a mapping; a key holding
// nil yields an empty namespace.
func (ns Namespace) Sub(name string) (Namespace, bool) {
	v, ok := ns[name]
	if !ok {
		return nil, false
	}
	if v == nil {
		return Namespace{}, true
	}
	return AsNamespace(v)
}

// Keys returns the sorted keys.
func (ns Namespace) Keys() []string {
	return slices.Sorted(maps.Keys(ns))
}

// Clone copies ns and every nested namespace. Other values are shared.
func (ns Namespace) Clone() Namespace {
	if ns == nil {
		return nil
	}
	out := make(Namespace, len(ns))
	for k, v := range ns {
		if sub, ok := AsNamespace(v); ok {
			out[k] = sub.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Merge copies other into a clone of ns. Keys present in both are an error
// unless both values are namespaces, which are merged recursively.
func (ns Namespace) Merge(other Namespace) (Namespace, error) {
	out := ns.Clone()
	if out == nil {
		out = Namespace{}
	}
	for k, v := range other {
		existing, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		a, aok := AsNamespace(existing)
		b, bok := AsNamespace(v)
		if !aok || !bok {
			return nil, fmt.Errorf("%w: %q", ErrNameCollision, k)
		}
		merged, err := a.Merge(b)
		if err != nil {
			return nil, err
		}
		out[k] = merged
	}
	return out, nil
}
