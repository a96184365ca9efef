// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// timeLayouts are tried in order when parsing dates and timestamps from text.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

var errStrictType = errors.New("strict mode requires a value of the same type")

func (v *Validator) coerce(raw any) (any, error) {
	switch v.kind {
	case KindAny:
		return raw, nil
	case KindBool:
		return toBool(raw, v.strict)
	case KindString:
		return toString(raw, v.strict)
	case KindInt:
		return toInt(raw, v.strict)
	case KindFloat:
		return toFloat(raw, v.strict)
	case KindDecimal:
		return toDecimal(raw, v.strict)
	case KindDate:
		t, err := toTime(raw, v.strict)
		if err != nil {
			return nil, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case KindDateTime:
		return toTime(raw, v.strict)
	case KindPath:
		return toPath(raw, v.strict)
	case KindFile:
		return toExisting(raw, v.strict, false)
	case KindDir:
		return toExisting(raw, v.strict, true)
	case KindList:
		return v.toList(raw, false)
	case KindSet:
		return v.toList(raw, true)
	case KindDict:
		return v.toDict(raw)
	case KindEnum:
		return v.toEnum(raw)
	case KindOpaque:
		if v.convert == nil {
			return raw, nil
		}
		return v.convert(raw)
	default:
		return nil, &InvalidKindError{Value: v.kind.String()}
	}
}

func toBool(raw any, strict bool) (any, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	if strict {
		return nil, errStrictType
	}
	switch t := raw.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, nil
		case "false", "f", "no", "n", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a boolean", t)
	}
	if n, ok := integerOf(raw); ok && (n == 0 || n == 1) {
		return n == 1, nil
	}
	return nil, fmt.Errorf("cannot convert %T to bool", raw)
}

func toString(raw any, strict bool) (any, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	if strict {
		return nil, errStrictType
	}
	switch t := raw.(type) {
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case *apd.Decimal:
		return t.String(), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	if n, ok := integerOf(raw); ok {
		return strconv.FormatInt(n, 10), nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return nil, fmt.Errorf("cannot convert %T to string", raw)
}

func toInt(raw any, strict bool) (any, error) {
	if n, ok := integerOf(raw); ok {
		if n < math.MinInt || n > math.MaxInt {
			return nil, fmt.Errorf("%d overflows int", n)
		}
		return int(n), nil
	}
	if u, ok := raw.(uint64); ok {
		return nil, fmt.Errorf("%d overflows int", u)
	}
	if strict {
		return nil, errStrictType
	}
	switch t := raw.(type) {
	case float32:
		return integralFloat(float64(t))
	case float64:
		return integralFloat(t)
	case *apd.Decimal:
		i, err := t.Int64()
		if err != nil {
			return nil, err
		}
		return int(i), nil
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 0); err == nil {
			return int(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", t)
		}
		return integralFloat(f)
	}
	return nil, fmt.Errorf("cannot convert %T to int", raw)
}

func integralFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integral number", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v overflows int", f)
	}
	return int(f), nil
}

func toFloat(raw any, strict bool) (any, error) {
	switch t := raw.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	}
	if strict {
		return nil, errStrictType
	}
	if n, ok := integerOf(raw); ok {
		return float64(n), nil
	}
	switch t := raw.(type) {
	case *apd.Decimal:
		return t.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", t)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert %T to float", raw)
}

func toDecimal(raw any, strict bool) (any, error) {
	switch t := raw.(type) {
	case *apd.Decimal:
		return new(apd.Decimal).Set(t), nil
	case apd.Decimal:
		return new(apd.Decimal).Set(&t), nil
	}
	if strict {
		return nil, errStrictType
	}
	if n, ok := integerOf(raw); ok {
		return apd.New(n, 0), nil
	}
	switch t := raw.(type) {
	case float32:
		return new(apd.Decimal).SetFloat64(float64(t))
	case float64:
		return new(apd.Decimal).SetFloat64(t)
	case string:
		d, _, err := apd.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("%q is not a decimal: %w", t, err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("cannot convert %T to decimal", raw)
}

func toTime(raw any, strict bool) (time.Time, error) {
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	if strict {
		return time.Time{}, errStrictType
	}
	if n, ok := integerOf(raw); ok {
		return time.Unix(n, 0).UTC(), nil
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("cannot convert %T to a date", raw)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a recognized date", s)
}

func toPath(raw any, strict bool) (any, error) {
	var s string
	switch t := raw.(type) {
	case string:
		s = t
	case fmt.Stringer:
		if strict {
			return nil, errStrictType
		}
		s = t.String()
	default:
		return nil, fmt.Errorf("cannot convert %T to a path", raw)
	}
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty path")
	}
	return filepath.Clean(s), nil
}

func toExisting(raw any, strict, dir bool) (any, error) {
	p, err := toPath(raw, strict)
	if err != nil {
		return nil, err
	}
	path := p.(string)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	switch {
	case dir && !info.IsDir():
		return nil, fmt.Errorf("%s is not a directory", path)
	case !dir && !info.Mode().IsRegular():
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return path, nil
}

func (v *Validator) toList(raw any, unique bool) (any, error) {
	raw, err := v.literal(raw)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(raw)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, fmt.Errorf("cannot convert %T to a %s", raw, strings.ToLower(v.kind.String()))
	}
	out := make([]any, 0, rv.Len())
	for i := range rv.Len() {
		item := rv.Index(i).Interface()
		if v.elem != nil {
			if item, err = v.elem.Convert(item); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		if unique && containsValue(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (v *Validator) toDict(raw any) (any, error) {
	raw, err := v.literal(raw)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("cannot convert %T to a dict", raw)
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})
	out := make(map[any]any, len(keys))
	for _, k := range keys {
		key := k.Interface()
		val := rv.MapIndex(k).Interface()
		if v.key != nil {
			if key, err = v.key.Convert(key); err != nil {
				return nil, fmt.Errorf("key %s: %w", FormatLiteral(k.Interface()), err)
			}
		}
		if key != nil && !reflect.TypeOf(key).Comparable() {
			return nil, fmt.Errorf("key %s is not hashable", FormatLiteral(key))
		}
		if v.val != nil {
			if val, err = v.val.Convert(val); err != nil {
				return nil, fmt.Errorf("value of %s: %w", FormatLiteral(key), err)
			}
		}
		out[key] = val
	}
	return out, nil
}

// literal evaluates textual collection input as a structured literal.
// Non-text input and strict validators pass through unchanged.
func (v *Validator) literal(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || v.strict {
		return raw, nil
	}
	return ParseLiteral(s)
}

func (v *Validator) toEnum(raw any) (any, error) {
	var s string
	switch t := raw.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		return nil, fmt.Errorf("cannot convert %T to an enum member", raw)
	}
	if !slices.Contains(v.members, s) {
		return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(v.members, ", "))
	}
	return s, nil
}

// integerOf reports the value of any signed or in-range unsigned integer.
func integerOf(raw any) (int64, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// isNull reports untyped nil and nil pointers or interfaces.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func containsValue(values []any, x any) bool {
	return slices.ContainsFunc(values, func(v any) bool { return equalValues(v, x) })
}

func equalValues(a, b any) bool {
	switch x := a.(type) {
	case *apd.Decimal:
		y, ok := b.(*apd.Decimal)
		return ok && x.Cmp(y) == 0
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of the same ordered family.
func compareValues(a, b any) (int, bool) {
	switch x := a.(type) {
	case int:
		switch y := b.(type) {
		case int:
			return cmp.Compare(x, y), true
		case float64:
			return cmp.Compare(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y), true
		case int:
			return cmp.Compare(x, float64(y)), true
		}
	case *apd.Decimal:
		if y, ok := b.(*apd.Decimal); ok {
			return x.Cmp(y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}
