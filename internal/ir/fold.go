package ir

import (
	"errors"
	"fmt"

	"flexir/internal/value"
)

// ErrNotFoldable is returned for operators that never fold.
var ErrNotFoldable = errors.New("operator does not fold")

var binaryFolders = map[BinaryOp]func(a, b value.Value) (value.Value, error){
	BinaryAdd:        value.Add,
	BinarySub:        value.Sub,
	BinaryMul:        value.Mul,
	BinaryDiv:        value.Div,
	BinaryMod:        value.Mod,
	BinaryBitAnd:     value.BitAnd,
	BinaryBitOr:      value.BitOr,
	BinaryBitXor:     value.BitXor,
	BinaryEq:         value.Equal,
	BinaryNotEq:      value.NotEqual,
	BinaryGreater:    value.Greater,
	BinaryGreaterEq:  value.GreaterEqual,
	BinaryLess:       value.Less,
	BinaryLessEq:     value.LessEqual,
	BinaryLogicalAnd: value.LogicalAnd,
	BinaryLogicalOr:  value.LogicalOr,
}

var unaryFolders = [...]func(v value.Value) (value.Value, error){
	UnaryNegate: value.Negate,
	UnaryNot:    value.Not,
	UnaryInvert: value.Invert,
}

// Fold evaluates op on two literals with runtime semantics.
func Fold(op BinaryOp, left, right value.Value) (value.Value, error) {
	fn, ok := binaryFolders[op]
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %s", ErrNotFoldable, op)
	}
	return fn(left, right)
}

// FoldUnary evaluates op on one literal.
func FoldUnary(op UnaryOp, operand value.Value) (value.Value, error) {
	if int(op) >= len(unaryFolders) || unaryFolders[op] == nil {
		return value.Value{}, fmt.Errorf("%w: %s", ErrNotFoldable, op)
	}
	return unaryFolders[op](operand)
}
