// SPDX-License-Identifier: MPL-2.0

package validate

type (
	// Condition is a named predicate over converted values.
	Condition struct {
		Name  string
		Check func(any) bool
	}
)

// Cond builds a Condition from a typed predicate. Values that are not a T
// fail the condition.
func Cond[T any](name string, check func(T) bool) Condition {
	return Condition{
		Name: name,
		Check: func(v any) bool {
			t, ok := v.(T)
			return ok && check(t)
		},
	}
}

// Holds reports whether v satisfies the condition. A condition without a
// predicate always holds.
func (c Condition) Holds(v any) bool {
	if c.Check == nil {
		return true
	}
	return c.Check(v)
}

// String returns the condition name.
func (c Condition) String() string {
	return c.Name
}
