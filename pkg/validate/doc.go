// SPDX-License-Identifier: MPL-2.0

// Package validate converts loosely typed input into typed Go values.
//
// A Validator is bound to one Kind and converts raw input (strings from the
// command line, widget states, values decoded from TOML) into the Go type for
// that kind, then checks the converted value against its choices and
// conditions. Conversion and validity share a single code path:
//
//	v := validate.Int().MinValue(1).MaxValue(64)
//	n, err := v.Convert("8") // n == 8
//	v.IsValid("0")           // false
//
// Collection kinds accept a structured literal when given text, so
// validate.List(validate.Int()).Convert("[1, 2, 3]") yields []any{1, 2, 3}.
package validate
