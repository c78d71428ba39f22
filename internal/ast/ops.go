package ast

// UnaryOp enumerates prefix operators the parser produces.
type UnaryOp uint8

const (
	// UnaryNegate is arithmetic negation (-).
	UnaryNegate UnaryOp = iota
	// UnaryNot is logical negation (!).
	UnaryNot
	// UnaryInvert is bitwise complement (~).
	UnaryInvert
	// UnaryPlus is the no-op prefix (+). The IR has no counterpart for it.
	UnaryPlus
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryInvert:
		return "~"
	case UnaryPlus:
		return "+"
	default:
		return "?"
	}
}

// BinaryOp enumerates infix operators the parser produces.
type BinaryOp uint8

const (
	// BinaryAssign is plain assignment (=).
	BinaryAssign BinaryOp = iota

	// Arithmetic

	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod

	// Bitwise

	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	// BinaryShiftLeft and BinaryShiftRight have no IR counterpart.
	BinaryShiftLeft
	BinaryShiftRight

	// Comparison

	BinaryEq
	BinaryNotEq
	BinaryGreater
	BinaryGreaterEq
	BinaryLess
	BinaryLessEq

	// Logical

	BinaryLogicalAnd
	BinaryLogicalOr
)

// String returns the operator's source spelling.
func (op BinaryOp) String() string {
	switch op {
	case BinaryAssign:
		return "="
	case BinaryAdd:
		return "+"
	case BinarySub:
		return "-"
	case BinaryMul:
		return "*"
	case BinaryDiv:
		return "/"
	case BinaryMod:
		return "%"
	case BinaryBitAnd:
		return "&"
	case BinaryBitOr:
		return "|"
	case BinaryBitXor:
		return "^"
	case BinaryShiftLeft:
		return "<<"
	case BinaryShiftRight:
		return ">>"
	case BinaryEq:
		return "=="
	case BinaryNotEq:
		return "!="
	case BinaryGreater:
		return ">"
	case BinaryGreaterEq:
		return ">="
	case BinaryLess:
		return "<"
	case BinaryLessEq:
		return "<="
	case BinaryLogicalAnd:
		return "&&"
	case BinaryLogicalOr:
		return "||"
	default:
		return "?"
	}
}

// ParseUnaryOp maps a spelling back to its operator.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	for op := UnaryNegate; op <= UnaryPlus; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

// ParseBinaryOp maps a spelling back to its operator.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op := BinaryAssign; op <= BinaryLogicalOr; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}
