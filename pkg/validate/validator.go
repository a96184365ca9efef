// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

type (
	// Converter is a caller-supplied conversion used by opaque validators.
	Converter func(raw any) (any, error)

	// Validator converts raw input to one Kind and checks the result against
	// choices and conditions. Builder methods mutate the receiver and return
	// it for chaining; a misused builder records an error reported by Err.
	Validator struct {
		kind       Kind
		nullable   bool
		strict     bool
		choices    []any
		conditions []Condition

		// elem is the element validator of List and Set; key and val belong to Dict.
		elem *Validator
		key  *Validator
		val  *Validator

		members []string

		name    string
		convert Converter

		err error
	}

	// Option configures a Validator returned by Infer.
	Option func(*Validator)
)

// New returns a validator of the given kind with no element typing.
func New(kind Kind) *Validator {
	return &Validator{kind: kind}
}

// Any returns a validator that accepts every value unchanged.
func Any() *Validator { return New(KindAny) }

// Bool returns a bool validator.
func Bool() *Validator { return New(KindBool) }

// String returns a string validator.
func String() *Validator { return New(KindString) }

// Int returns an int validator.
func Int() *Validator { return New(KindInt) }

// Float returns a float64 validator.
func Float() *Validator { return New(KindFloat) }

// Decimal returns an arbitrary-precision decimal validator.
func Decimal() *Validator { return New(KindDecimal) }

// Date returns a calendar date validator.
func Date() *Validator { return New(KindDate) }

// DateTime returns a timestamp validator.
func DateTime() *Validator { return New(KindDateTime) }

// Path returns a filesystem path validator.
func Path() *Validator { return New(KindPath) }

// File returns a validator for paths naming an existing regular file.
func File() *Validator { return New(KindFile) }

// Dir returns a validator for paths naming an existing directory.
func Dir() *Validator { return New(KindDir) }

// List returns a list validator. A nil elem leaves elements untyped; any other
// elem is passed to Infer and its elements are nullable.
func List(elem any) *Validator {
	v := New(KindList)
	v.elem = inferElement(elem)
	return v
}

// Set returns a set validator; duplicates are dropped in first-seen order.
func Set(elem any) *Validator {
	v := New(KindSet)
	v.elem = inferElement(elem)
	return v
}

// Dict returns a mapping validator with optional key and value typing.
func Dict(key, val any) *Validator {
	v := New(KindDict)
	v.key = inferElement(key)
	v.val = inferElement(val)
	return v
}

// Enum returns a validator accepting exactly the given member names.
func Enum(members ...string) *Validator {
	v := New(KindEnum)
	v.members = slices.Clone(members)
	if len(members) == 0 {
		v.fail(errors.New("enum needs at least one member"))
	}
	return v
}

// Opaque returns a validator that delegates conversion to fn. A nil fn
// accepts every value unchanged.
func Opaque(name string, fn Converter) *Validator {
	v := New(KindOpaque)
	v.name = name
	v.convert = fn
	return v
}

// WithNullable sets whether null input is accepted.
func WithNullable(nullable bool) Option {
	return func(v *Validator) { v.SetNullable(nullable) }
}

// WithStrict sets strict conversion mode.
func WithStrict(strict bool) Option {
	return func(v *Validator) { v.SetStrict(strict) }
}

// WithChoices restricts the accepted values.
func WithChoices(choices ...any) Option {
	return func(v *Validator) { v.SetChoices(choices...) }
}

// WithConditions adds conditions.
func WithConditions(conditions ...Condition) Option {
	return func(v *Validator) {
		for _, c := range conditions {
			v.AddCondition(c)
		}
	}
}

func inferElement(desc any) *Validator {
	if desc == nil {
		return nil
	}
	return Infer(desc, WithNullable(true))
}

// Kind returns the validator kind.
func (v *Validator) Kind() Kind { return v.kind }

// Nullable reports whether null input converts to nil.
func (v *Validator) Nullable() bool { return v.nullable }

// Strict reports whether only same-family input is accepted.
func (v *Validator) Strict() bool { return v.strict }

// Choices returns a copy of the allowed values, or nil when unrestricted.
func (v *Validator) Choices() []any { return slices.Clone(v.choices) }

// Conditions returns a copy of the validator's conditions.
func (v *Validator) Conditions() []Condition { return slices.Clone(v.conditions) }

// Elem returns the element validator of a List or Set, or nil.
func (v *Validator) Elem() *Validator { return v.elem }

// Key returns the key validator of a Dict, or nil.
func (v *Validator) Key() *Validator { return v.key }

// Val returns the value validator of a Dict, or nil.
func (v *Validator) Val() *Validator { return v.val }

// Members returns the member names of an Enum.
func (v *Validator) Members() []string { return slices.Clone(v.members) }

// Err returns the first declaration error recorded by a builder method.
func (v *Validator) Err() error { return v.err }

// TypeName describes the produced type, e.g. "Dict[String, List[Int]]".
func (v *Validator) TypeName() string {
	switch v.kind {
	case KindList, KindSet:
		if v.elem == nil {
			return v.kind.String()
		}
		return fmt.Sprintf("%s[%s]", v.kind, v.elem.TypeName())
	case KindDict:
		if v.key == nil && v.val == nil {
			return v.kind.String()
		}
		return fmt.Sprintf("Dict[%s, %s]", typeNameOrAny(v.key), typeNameOrAny(v.val))
	case KindEnum:
		return fmt.Sprintf("Enum[%s]", strings.Join(v.members, "|"))
	case KindOpaque:
		if v.name != "" {
			return v.name
		}
	}
	return v.kind.String()
}

func typeNameOrAny(v *Validator) string {
	if v == nil {
		return KindAny.String()
	}
	return v.TypeName()
}

// String implements fmt.Stringer.
func (v *Validator) String() string {
	return v.TypeName()
}

// Clone returns a deep copy. Condition predicates are shared.
func (v *Validator) Clone() *Validator {
	c := *v
	c.choices = slices.Clone(v.choices)
	c.conditions = slices.Clone(v.conditions)
	c.members = slices.Clone(v.members)
	if v.elem != nil {
		c.elem = v.elem.Clone()
	}
	if v.key != nil {
		c.key = v.key.Clone()
	}
	if v.val != nil {
		c.val = v.val.Clone()
	}
	return &c
}

// SetNullable sets whether null input is accepted.
func (v *Validator) SetNullable(nullable bool) *Validator {
	v.nullable = nullable
	return v
}

// SetStrict sets strict mode. Choices already set are kept as normalized.
func (v *Validator) SetStrict(strict bool) *Validator {
	v.strict = strict
	return v
}

// SetChoices restricts accepted values. Each choice is normalized through
// the validator's base coercion so later comparisons are exact. Calling it
// with no arguments removes the restriction.
func (v *Validator) SetChoices(choices ...any) *Validator {
	if len(choices) == 0 {
		v.choices = nil
		return v
	}
	normalized := make([]any, 0, len(choices))
	for _, c := range choices {
		if isNull(c) {
			v.fail(errors.New("null is not a valid choice"))
			return v
		}
		n, err := v.coerce(c)
		if err != nil {
			v.fail(fmt.Errorf("choice %s: %w", FormatLiteral(c), err))
			return v
		}
		if !containsValue(normalized, n) {
			normalized = append(normalized, n)
		}
	}
	v.choices = normalized
	return v
}

// AddCondition appends a condition.
func (v *Validator) AddCondition(c Condition) *Validator {
	if c.Check == nil {
		v.fail(fmt.Errorf("condition %q has no predicate", c.Name))
		return v
	}
	v.conditions = append(v.conditions, c)
	return v
}

// MinValue requires converted values to be >= bound.
func (v *Validator) MinValue(bound any) *Validator {
	return v.addBound(bound, ">=", func(c int) bool { return c >= 0 })
}

// MaxValue requires converted values to be <= bound.
func (v *Validator) MaxValue(bound any) *Validator {
	return v.addBound(bound, "<=", func(c int) bool { return c <= 0 })
}

// After requires dates to be strictly later than t.
func (v *Validator) After(t time.Time) *Validator {
	return v.addBound(t, ">", func(c int) bool { return c > 0 })
}

// Before requires dates to be strictly earlier than t.
func (v *Validator) Before(t time.Time) *Validator {
	return v.addBound(t, "<", func(c int) bool { return c < 0 })
}

// MinLen requires strings and collections to have at least n elements.
func (v *Validator) MinLen(n int) *Validator {
	return v.addLength(n, ">=", func(l int) bool { return l >= n })
}

// MaxLen requires strings and collections to have at most n elements.
func (v *Validator) MaxLen(n int) *Validator {
	return v.addLength(n, "<=", func(l int) bool { return l <= n })
}

func (v *Validator) addBound(bound any, op string, accept func(int) bool) *Validator {
	if !v.kind.IsOrdered() {
		v.fail(fmt.Errorf("%s does not support value bounds", v.TypeName()))
		return v
	}
	b, err := v.permissive().coerce(bound)
	if err != nil {
		v.fail(fmt.Errorf("bound %s: %w", FormatLiteral(bound), err))
		return v
	}
	v.conditions = append(v.conditions, Condition{
		Name: fmt.Sprintf("val %s %s", op, FormatLiteral(b)),
		Check: func(x any) bool {
			c, ok := compareValues(x, b)
			return ok && accept(c)
		},
	})
	return v
}

func (v *Validator) addLength(n int, op string, accept func(int) bool) *Validator {
	if !v.kind.hasLength() {
		v.fail(fmt.Errorf("%s does not support length bounds", v.TypeName()))
		return v
	}
	if n < 0 {
		v.fail(fmt.Errorf("negative length bound %d", n))
		return v
	}
	v.conditions = append(v.conditions, Condition{
		Name: fmt.Sprintf("len(val) %s %d", op, n),
		Check: func(x any) bool {
			l, ok := valueLength(x)
			return ok && accept(l)
		},
	})
	return v
}

func (v *Validator) permissive() *Validator {
	if !v.strict {
		return v
	}
	c := *v
	c.strict = false
	return &c
}

func (v *Validator) fail(err error) {
	if v.err == nil {
		v.err = fmt.Errorf("%w: %w", ErrDeclaration, err)
	}
}

// Convert coerces raw to the validator's kind and checks the result against
// choices and conditions. Null input yields nil for nullable validators.
func (v *Validator) Convert(raw any) (any, error) {
	if isNull(raw) {
		if v.nullable {
			return nil, nil
		}
		return nil, v.conversionError(raw, ErrNullValue)
	}
	converted, err := v.coerce(raw)
	if err != nil {
		if errors.Is(err, ErrConstraint) {
			return nil, err
		}
		return nil, v.conversionError(raw, err)
	}
	if err := v.check(converted); err != nil {
		return nil, err
	}
	return converted, nil
}

// IsValid reports whether Convert would succeed.
func (v *Validator) IsValid(raw any) bool {
	_, err := v.Convert(raw)
	return err == nil
}

func (v *Validator) check(converted any) error {
	if v.choices != nil && !containsValue(v.choices, converted) {
		return &ConstraintError{Value: converted, Choices: slices.Clone(v.choices)}
	}
	for _, c := range v.conditions {
		if !c.Holds(converted) {
			return &ConstraintError{Value: converted, Condition: c.Name}
		}
	}
	return nil
}

func (v *Validator) conversionError(raw any, cause error) error {
	return &ConversionError{
		Value:    raw,
		Target:   v.TypeName(),
		Nullable: v.nullable,
		Strict:   v.strict,
		Cause:    cause,
	}
}

func valueLength(x any) (int, bool) {
	switch t := x.(type) {
	case string:
		return utf8.RuneCountInString(t), true
	case []any:
		return len(t), true
	case map[any]any:
		return len(t), true
	default:
		return 0, false
	}
}
