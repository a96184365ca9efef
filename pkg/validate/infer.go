// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"fmt"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[apd.Decimal]()
)

// Infer returns a validator for a type descriptor. The descriptor may be:
//
//   - nil, for a validator accepting anything
//   - a Kind
//   - an existing *Validator, which is cloned
//   - a Converter or func(any) (any, error), wrapped as an opaque validator
//   - a reflect.Type
//   - any other value, whose dynamic type is used, e.g. 0, "", []string(nil)
//
// Types with no matching kind degrade to an opaque validator that converts
// input with Go conversion rules.
func Infer(desc any, opts ...Option) *Validator {
	var v *Validator
	switch d := desc.(type) {
	case nil:
		v = Any()
	case Kind:
		if ok, errs := d.IsValid(); !ok {
			v = Any()
			v.fail(errs[0])
			break
		}
		v = New(d)
	case *Validator:
		if d == nil {
			v = Any()
			break
		}
		v = d.Clone()
	case Converter:
		v = Opaque("Custom", d)
	case func(any) (any, error):
		v = Opaque("Custom", d)
	case reflect.Type:
		v = inferType(d)
	default:
		v = inferType(reflect.TypeOf(desc))
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func inferType(t reflect.Type) *Validator {
	if t == nil {
		return Any()
	}
	switch t {
	case timeType:
		return DateTime()
	case decimalType, reflect.PointerTo(decimalType):
		return Decimal()
	}
	if t.PkgPath() != "" {
		return namedType(t)
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool()
	case reflect.String:
		return String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int()
	case reflect.Float32, reflect.Float64:
		return Float()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Interface {
			return List(nil)
		}
		return List(t.Elem())
	case reflect.Map:
		return Dict(interfaceOrType(t.Key()), interfaceOrType(t.Elem()))
	case reflect.Interface:
		return Any()
	case reflect.Pointer:
		return inferType(t.Elem())
	default:
		return namedType(t)
	}
}

func interfaceOrType(t reflect.Type) any {
	if t.Kind() == reflect.Interface {
		return nil
	}
	return t
}

// namedType converts through the underlying basic kind when there is one,
// then to t with a Go conversion.
func namedType(t reflect.Type) *Validator {
	var base *Validator
	switch t.Kind() {
	case reflect.Bool:
		base = Bool()
	case reflect.String:
		base = String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		base = Int()
	case reflect.Float32, reflect.Float64:
		base = Float()
	}
	return Opaque(t.String(), func(raw any) (any, error) {
		rv := reflect.ValueOf(raw)
		if rv.Type().AssignableTo(t) {
			return raw, nil
		}
		if base != nil {
			b, err := base.coerce(raw)
			if err != nil {
				return nil, err
			}
			rv = reflect.ValueOf(b)
		}
		if !rv.Type().ConvertibleTo(t) {
			return nil, fmt.Errorf("cannot convert %T to %s", raw, t)
		}
		return rv.Convert(t).Interface(), nil
	})
}
