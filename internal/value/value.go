// Package value implements the literal model shared by constant folding and the
// AST document reader.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	// KindNone is the absent value.
	KindNone Kind = iota
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindBool is a boolean.
	KindBool
	// KindString is an immutable string.
	KindString
	// KindChar is a single code point.
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindChar:
		return "char"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a literal. Only the field selected by Kind is meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Char  rune
}

func MakeInt(n int64) Value     { return Value{Kind: KindInt, Int: n} }
func MakeFloat(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func MakeBool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func MakeString(s string) Value { return Value{Kind: KindString, Str: s} }
func MakeChar(r rune) Value     { return Value{Kind: KindChar, Char: r} }
func None() Value               { return Value{} }

func (v Value) IsNone() bool { return v.Kind == KindNone }

// IsNumeric reports whether v takes part in arithmetic.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// String renders v the way it appears in IR dumps.
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return strconv.Quote(v.Str)
	case KindChar:
		return strconv.QuoteRune(v.Char)
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Truthy is the condition semantics used by && and ||.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str != ""
	case KindChar:
		return v.Char != 0
	default:
		return false
	}
}

func (v Value) asFloat() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Float
}

// Parse builds a value from a literal's source spelling.
func Parse(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindNone:
		return None(), nil
	case KindInt:
		n, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid int literal %q: %w", raw, err)
		}
		return MakeInt(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float literal %q: %w", raw, err)
		}
		return MakeFloat(f), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid bool literal %q: %w", raw, err)
		}
		return MakeBool(b), nil
	case KindString:
		return MakeString(raw), nil
	case KindChar:
		runes := []rune(raw)
		if len(runes) != 1 {
			return Value{}, fmt.Errorf("invalid char literal %q", raw)
		}
		return MakeChar(runes[0]), nil
	default:
		return Value{}, fmt.Errorf("unknown literal kind %d", kind)
	}
}
