// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// KindAny accepts any value unchanged.
	KindAny Kind = iota
	// KindBool converts to bool.
	KindBool
	// KindString converts to string.
	KindString
	// KindInt converts to int.
	KindInt
	// KindFloat converts to float64.
	KindFloat
	// KindDecimal converts to *apd.Decimal.
	KindDecimal
	// KindDate converts to a time.Time truncated to midnight UTC.
	KindDate
	// KindDateTime converts to time.Time.
	KindDateTime
	// KindPath converts to a cleaned filesystem path string.
	KindPath
	// KindFile converts to a path naming an existing regular file.
	KindFile
	// KindDir converts to a path naming an existing directory.
	KindDir
	// KindList converts to []any.
	KindList
	// KindSet converts to []any without duplicates.
	KindSet
	// KindDict converts to map[any]any.
	KindDict
	// KindEnum converts to one of a fixed set of member names.
	KindEnum
	// KindOpaque delegates conversion to a caller-supplied function.
	KindOpaque
)

// ErrInvalidKind is returned when a Kind value is not one of the defined kinds.
var ErrInvalidKind = errors.New("invalid validator kind")

var kindNames = [...]string{
	KindAny:      "Any",
	KindBool:     "Bool",
	KindString:   "String",
	KindInt:      "Int",
	KindFloat:    "Float",
	KindDecimal:  "Decimal",
	KindDate:     "Date",
	KindDateTime: "DateTime",
	KindPath:     "Path",
	KindFile:     "File",
	KindDir:      "Dir",
	KindList:     "List",
	KindSet:      "Set",
	KindDict:     "Dict",
	KindEnum:     "Enum",
	KindOpaque:   "Opaque",
}

type (
	// Kind identifies the family of values a Validator produces.
	Kind int

	// InvalidKindError is returned when a Kind or kind name is not recognized.
	// It wraps ErrInvalidKind for errors.Is() compatibility.
	InvalidKindError struct {
		Value string
	}
)

// Error implements the error interface for InvalidKindError.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid validator kind %q", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error {
	return ErrInvalidKind
}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsValid returns whether the Kind is one of the defined kinds,
// and a list of validation errors if it is not.
func (k Kind) IsValid() (bool, []error) {
	if k < 0 || int(k) >= len(kindNames) {
		return false, []error{&InvalidKindError{Value: k.String()}}
	}
	return true, nil
}

// IsCollection reports whether the kind holds other values.
func (k Kind) IsCollection() bool {
	return k == KindList || k == KindSet || k == KindDict
}

// IsOrdered reports whether values of the kind can be compared with bounds.
func (k Kind) IsOrdered() bool {
	switch k {
	case KindInt, KindFloat, KindDecimal, KindDate, KindDateTime:
		return true
	default:
		return false
	}
}

// hasLength reports whether values of the kind have a length.
func (k Kind) hasLength() bool {
	switch k {
	case KindString, KindList, KindSet, KindDict:
		return true
	default:
		return false
	}
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Kind(i), nil
		}
	}
	return KindAny, &InvalidKindError{Value: name}
}
