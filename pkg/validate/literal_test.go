// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want any
	}{
		{src: "1", want: 1},
		{src: "-2.5", want: -2.5},
		{src: "1e3", want: 1000},
		{src: `"web"`, want: "web"},
		{src: "true", want: true},
		{src: "null", want: nil},
		{src: "[]", want: []any{}},
		{src: `[1, "two", [3]]`, want: []any{1, "two", []any{3}}},
		{src: `{"a" = 1, "b": [true]}`, want: map[string]any{"a": 1, "b": []any{true}}},
		{src: "{\n  name = \"x\"\n}", want: map[string]any{"name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLiteral(tt.src)
			if err != nil {
				t.Fatalf("ParseLiteral(%q) error: %v", tt.src, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLiteral(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParseLiteralRejectsCode(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"web", "upper(\"x\")", "var.secret", "[1,", "{a = b}"} {
		if _, err := ParseLiteral(src); !errors.Is(err, ErrLiteral) {
			t.Errorf("ParseLiteral(%q) error = %v, want ErrLiteral", src, err)
		}
	}
}

func TestFormatLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	values := []any{
		nil,
		42,
		2.5,
		false,
		"plain",
		"needs \"quotes\" and ${braces}",
		[]any{1, "a", []any{true}},
		map[string]any{"k": []any{1, 2}, "other": "v"},
	}
	for _, v := range values {
		text := FormatLiteral(v)
		got, err := ParseLiteral(text)
		if err != nil {
			t.Errorf("ParseLiteral(FormatLiteral(%v)) = %q: %v", v, text, err)
			continue
		}
		if diff := cmp.Diff(v, got); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", text, diff)
		}
	}
}

func TestFormatText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    any
		want string
	}{
		{v: nil, want: ""},
		{v: "web", want: "web"},
		{v: 4, want: "4"},
		{v: []any{"a", 1}, want: `["a", 1]`},
		{v: map[any]any{"b": 2, "a": 1}, want: `{"a" = 1, "b" = 2}`},
		{v: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), want: "2024-05-06"},
	}
	for _, tt := range tests {
		if got := FormatText(tt.v); got != tt.want {
			t.Errorf("FormatText(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
