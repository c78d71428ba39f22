package ir

import (
	"fmt"

	"flexir/internal/ast"
)

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnaryNegate UnaryOp = iota
	UnaryNot
	UnaryInvert
	// UnaryNone marks an AST operator with no IR counterpart.
	UnaryNone

	unaryOpCount
)

// BinaryOp is an infix operator.
type BinaryOp uint8

const (
	BinaryAssign BinaryOp = iota
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryEq
	BinaryNotEq
	BinaryGreater
	BinaryGreaterEq
	BinaryLess
	BinaryLessEq
	BinaryLogicalAnd
	BinaryLogicalOr
	// BinaryNone marks an AST operator with no IR counterpart.
	BinaryNone

	binaryOpCount
)

// Indexed by operator value.
var (
	unaryOpSpelling = [...]string{"-", "!", "~", "NONE"}

	binaryOpSpelling = [...]string{
		"=", "+", "-", "*", "/", "%", "&", "|", "^",
		"==", "!=", ">", ">=", "<", "<=", "&&", "||", "NONE",
	}
)

func init() {
	if len(unaryOpSpelling) != int(unaryOpCount) {
		panic(fmt.Sprintf("ir: unary spelling table has %d entries, want %d", len(unaryOpSpelling), unaryOpCount))
	}
	if len(binaryOpSpelling) != int(binaryOpCount) {
		panic(fmt.Sprintf("ir: binary spelling table has %d entries, want %d", len(binaryOpSpelling), binaryOpCount))
	}
}

func (op UnaryOp) String() string {
	if op >= unaryOpCount {
		return "NONE"
	}
	return unaryOpSpelling[op]
}

func (op BinaryOp) String() string {
	if op >= binaryOpCount {
		return "NONE"
	}
	return binaryOpSpelling[op]
}

// UnaryOpFromAST maps each AST operator to its own IR operator.
func UnaryOpFromAST(op ast.UnaryOp) UnaryOp {
	switch op {
	case ast.UnaryNegate:
		return UnaryNegate
	case ast.UnaryNot:
		return UnaryNot
	case ast.UnaryInvert:
		return UnaryInvert
	default:
		return UnaryNone
	}
}

func BinaryOpFromAST(op ast.BinaryOp) BinaryOp {
	switch op {
	case ast.BinaryAssign:
		return BinaryAssign
	case ast.BinaryAdd:
		return BinaryAdd
	case ast.BinarySub:
		return BinarySub
	case ast.BinaryMul:
		return BinaryMul
	case ast.BinaryDiv:
		return BinaryDiv
	case ast.BinaryMod:
		return BinaryMod
	case ast.BinaryBitAnd:
		return BinaryBitAnd
	case ast.BinaryBitOr:
		return BinaryBitOr
	case ast.BinaryBitXor:
		return BinaryBitXor
	case ast.BinaryEq:
		return BinaryEq
	case ast.BinaryNotEq:
		return BinaryNotEq
	case ast.BinaryGreater:
		return BinaryGreater
	case ast.BinaryGreaterEq:
		return BinaryGreaterEq
	case ast.BinaryLess:
		return BinaryLess
	case ast.BinaryLessEq:
		return BinaryLessEq
	case ast.BinaryLogicalAnd:
		return BinaryLogicalAnd
	case ast.BinaryLogicalOr:
		return BinaryLogicalOr
	default:
		return BinaryNone
	}
}
