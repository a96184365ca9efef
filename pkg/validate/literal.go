// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ErrLiteral is wrapped by every ParseLiteral failure.
var ErrLiteral = errors.New("invalid literal")

// ParseLiteral evaluates text as a structured literal: numbers, quoted
// strings, true, false, null, [lists] and {objects} with "key" = value or
// "key": value entries. Evaluation has no variables or functions, so the text
// can never reach program state. Integral numbers become int, other numbers
// float64, lists []any and objects map[string]any.
func ParseLiteral(src string) (any, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "literal", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrLiteral, diags.Error())
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrLiteral, diags.Error())
	}
	return fromCty(val)
}

func fromCty(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: value is not known", ErrLiteral)
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Bool:
		return v.True(), nil
	case t == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		out := []any{}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case t.IsMapType() || t.IsObjectType():
		out := map[string]any{}
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %s", ErrLiteral, t.FriendlyName())
	}
}

// FormatLiteral renders v as text ParseLiteral reads back into an equal value
// for null, bool, numbers, strings, lists and string-keyed maps. Dates,
// decimals and other values render as quoted strings.
func FormatLiteral(v any) string {
	if isNull(v) {
		return "null"
	}
	switch t := v.(type) {
	case string:
		return quote(t)
	case bool:
		return strconv.FormatBool(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case *apd.Decimal:
		return t.String()
	case time.Time:
		return quote(formatTime(t))
	}
	if n, ok := integerOf(v); ok {
		return strconv.FormatInt(n, 10)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range rv.Len() {
			parts[i] = FormatLiteral(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.Map:
		parts := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			parts = append(parts, fmt.Sprintf("%s = %s", quote(FormatText(k.Interface())), FormatLiteral(rv.MapIndex(k).Interface())))
		}
		slices.Sort(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	case reflect.String:
		return quote(rv.String())
	}
	return quote(fmt.Sprint(v))
}

// FormatText renders v for display and text entry: strings appear bare,
// null as the empty string and everything else as its literal.
func FormatText(v any) string {
	if isNull(v) {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return formatTime(t)
	case fmt.Stringer:
		return t.String()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return FormatLiteral(v)
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && t.Location() == time.UTC {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}

// quote escapes s so template sequences are kept literal.
func quote(s string) string {
	q := strconv.Quote(s)
	q = strings.ReplaceAll(q, "${", "$${")
	return strings.ReplaceAll(q, "%{", "%%{")
}
