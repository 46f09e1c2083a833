package lang

import (
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the type carried by a [Value].
type Kind uint8

const (
	KindInt Kind = iota
	KindBool
	KindString
	KindList
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"

	case KindBool:
		return "bool"

	case KindString:
		return "string"

	case KindList:
		return "list"

	default:
		return "unknown"
	}
}

// Value is a runtime value: an integer, a boolean, a string, or an
// immutable list of strings. The zero Value is the integer 0.
type Value struct {
	kind Kind
	num  int64
	str  string
	list []string
}

// Int returns an integer Value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List returns a list Value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Int64 returns the integer payload. It is 0 unless v is an int.
func (v Value) Int64() int64 {
	if v.kind != KindInt {
		return 0
	}

	return v.num
}

// Bool returns the boolean payload. It is false unless v is a bool.
func (v Value) Bool() bool { return v.kind == KindBool && v.num != 0 }

// Str returns the string payload without any conversion. It is "" unless v
// is a string; use [Value.String] to stringify any kind.
func (v Value) Str() string { return v.str }

// List returns a copy of the list payload. It is nil unless v is a list.
func (v Value) List() []string { return slices.Clone(v.list) }

// Len returns the number of list elements, or 0 for non-list values.
func (v Value) Len() int { return len(v.list) }

// String renders v for output:
//
//   - booleans as "true" or "false"
//   - integers in decimal
//   - strings unchanged
//   - lists as a parenthesized, comma-separated sequence of quoted
//     elements, e.g. ('Hello', 'World!')
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10)

	case KindBool:
		return strconv.FormatBool(v.num != 0)

	case KindString:
		return v.str

	case KindList:
		var sb strings.Builder

		sb.WriteByte('(')

		for i, s := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(reprQuote(s))
		}

		sb.WriteByte(')')

		return sb.String()

	default:
		return ""
	}
}

// Equal reports whether v and w have the same kind and payload.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == w.str

	case KindList:
		return slices.Equal(v.list, w.list)

	default:
		return v.num == w.num
	}
}

// Native converts v to a plain Go value: int64, bool, string or []string.
func (v Value) Native() any {
	switch v.kind {
	case KindInt:
		return v.num

	case KindBool:
		return v.num != 0

	case KindString:
		return v.str

	case KindList:
		return v.List()

	default:
		return nil
	}
}

// reprQuote quotes s the way list elements are displayed: single quotes,
// unless s contains a single quote and no double quote.
func reprQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte(quote)

	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case quote:
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		default:
			sb.WriteByte(ch)
		}
	}

	sb.WriteByte(quote)

	return sb.String()
}
