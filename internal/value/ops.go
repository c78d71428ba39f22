package value

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDivisionByZero is returned by Div and Mod for a zero integer divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOperandMismatch is returned when an operator is undefined for the operand kinds.
	ErrOperandMismatch = errors.New("operand mismatch")
)

func mismatch(op string, left, right Value) error {
	return fmt.Errorf("%w: %s %s %s", ErrOperandMismatch, left.Kind, op, right.Kind)
}

// Add sums numbers and concatenates strings.
func Add(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return MakeInt(left.Int + right.Int), nil
	case left.IsNumeric() && right.IsNumeric():
		return MakeFloat(left.asFloat() + right.asFloat()), nil
	case left.Kind == KindString && right.Kind == KindString:
		return MakeString(left.Str + right.Str), nil
	default:
		return Value{}, mismatch("+", left, right)
	}
}

func Sub(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return MakeInt(left.Int - right.Int), nil
	case left.IsNumeric() && right.IsNumeric():
		return MakeFloat(left.asFloat() - right.asFloat()), nil
	default:
		return Value{}, mismatch("-", left, right)
	}
}

func Mul(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return MakeInt(left.Int * right.Int), nil
	case left.IsNumeric() && right.IsNumeric():
		return MakeFloat(left.asFloat() * right.asFloat()), nil
	default:
		return Value{}, mismatch("*", left, right)
	}
}

// Div truncates toward zero for integers. Float division follows IEEE 754.
func Div(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		if right.Int == 0 {
			return Value{}, ErrDivisionByZero
		}
		return MakeInt(left.Int / right.Int), nil
	case left.IsNumeric() && right.IsNumeric():
		return MakeFloat(left.asFloat() / right.asFloat()), nil
	default:
		return Value{}, mismatch("/", left, right)
	}
}

// Mod is defined on integers only; the result takes the sign of the dividend.
func Mod(left, right Value) (Value, error) {
	if left.Kind != KindInt || right.Kind != KindInt {
		return Value{}, mismatch("%", left, right)
	}
	if right.Int == 0 {
		return Value{}, ErrDivisionByZero
	}
	return MakeInt(left.Int % right.Int), nil
}

func BitAnd(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return MakeInt(left.Int & right.Int), nil
	case left.Kind == KindBool && right.Kind == KindBool:
		return MakeBool(left.Bool && right.Bool), nil
	default:
		return Value{}, mismatch("&", left, right)
	}
}

func BitOr(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return MakeInt(left.Int | right.Int), nil
	case left.Kind == KindBool && right.Kind == KindBool:
		return MakeBool(left.Bool || right.Bool), nil
	default:
		return Value{}, mismatch("|", left, right)
	}
}

func BitXor(left, right Value) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return MakeInt(left.Int ^ right.Int), nil
	case left.Kind == KindBool && right.Kind == KindBool:
		return MakeBool(left.Bool != right.Bool), nil
	default:
		return Value{}, mismatch("^", left, right)
	}
}

// Equal compares numbers across int and float; other kinds must match exactly.
func Equal(left, right Value) (Value, error) {
	eq, err := equal(left, right)
	if err != nil {
		return Value{}, mismatch("==", left, right)
	}
	return MakeBool(eq), nil
}

func NotEqual(left, right Value) (Value, error) {
	eq, err := equal(left, right)
	if err != nil {
		return Value{}, mismatch("!=", left, right)
	}
	return MakeBool(!eq), nil
}

func equal(left, right Value) (bool, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return left.Int == right.Int, nil
	case left.IsNumeric() && right.IsNumeric():
		return left.asFloat() == right.asFloat(), nil
	case left.Kind != right.Kind:
		return false, ErrOperandMismatch
	}
	switch left.Kind {
	case KindBool:
		return left.Bool == right.Bool, nil
	case KindString:
		return left.Str == right.Str, nil
	case KindChar:
		return left.Char == right.Char, nil
	case KindNone:
		return true, nil
	default:
		return false, ErrOperandMismatch
	}
}

// compare orders numbers, strings and chars; it returns -1, 0 or 1.
func compare(left, right Value) (int, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return cmp3(left.Int, right.Int), nil
	case left.IsNumeric() && right.IsNumeric():
		return cmp3(left.asFloat(), right.asFloat()), nil
	case left.Kind == KindString && right.Kind == KindString:
		return strings.Compare(left.Str, right.Str), nil
	case left.Kind == KindChar && right.Kind == KindChar:
		return cmp3(left.Char, right.Char), nil
	default:
		return 0, ErrOperandMismatch
	}
}

func cmp3[T int64 | float64 | rune](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func Less(left, right Value) (Value, error) {
	c, err := compare(left, right)
	if err != nil {
		return Value{}, mismatch("<", left, right)
	}
	return MakeBool(c < 0), nil
}

func LessEqual(left, right Value) (Value, error) {
	c, err := compare(left, right)
	if err != nil {
		return Value{}, mismatch("<=", left, right)
	}
	return MakeBool(c <= 0), nil
}

func Greater(left, right Value) (Value, error) {
	c, err := compare(left, right)
	if err != nil {
		return Value{}, mismatch(">", left, right)
	}
	return MakeBool(c > 0), nil
}

func GreaterEqual(left, right Value) (Value, error) {
	c, err := compare(left, right)
	if err != nil {
		return Value{}, mismatch(">=", left, right)
	}
	return MakeBool(c >= 0), nil
}

func LogicalAnd(left, right Value) (Value, error) {
	if left.IsNone() || right.IsNone() {
		return Value{}, mismatch("&&", left, right)
	}
	return MakeBool(left.Truthy() && right.Truthy()), nil
}

func LogicalOr(left, right Value) (Value, error) {
	if left.IsNone() || right.IsNone() {
		return Value{}, mismatch("||", left, right)
	}
	return MakeBool(left.Truthy() || right.Truthy()), nil
}

func Negate(v Value) (Value, error) {
	switch v.Kind {
	case KindInt:
		return MakeInt(-v.Int), nil
	case KindFloat:
		return MakeFloat(-v.Float), nil
	default:
		return Value{}, fmt.Errorf("%w: -%s", ErrOperandMismatch, v.Kind)
	}
}

func Not(v Value) (Value, error) {
	if v.IsNone() {
		return Value{}, fmt.Errorf("%w: !%s", ErrOperandMismatch, v.Kind)
	}
	return MakeBool(!v.Truthy()), nil
}

func Invert(v Value) (Value, error) {
	if v.Kind != KindInt {
		return Value{}, fmt.Errorf("%w: ~%s", ErrOperandMismatch, v.Kind)
	}
	return MakeInt(^v.Int), nil
}
