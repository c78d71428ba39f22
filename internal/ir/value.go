package ir

import (
	"flexir/internal/source"
	"flexir/internal/value"
)

// ValueKind discriminates Value.
type ValueKind uint8

const (
	// ValueNone is the sentinel produced for anything that could not be lowered.
	ValueNone ValueKind = iota
	ValueConst
	ValueIdent
	ValueUnary
	ValueBinary
	ValueCall
	// ValueAssign is itself a value so assignments can nest.
	ValueAssign
)

func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "none"
	case ValueConst:
		return "const"
	case ValueIdent:
		return "ident"
	case ValueUnary:
		return "unary"
	case ValueBinary:
		return "binary"
	case ValueCall:
		return "call"
	case ValueAssign:
		return "assign"
	default:
		return "value?"
	}
}

// Value is an untyped IR value. Only the payload selected by Kind is meaningful.
type Value struct {
	Kind ValueKind
	Span source.Span

	Const  ConstValue
	Ident  IdentValue
	Unary  UnaryValue
	Binary BinaryValue
	Call   CallValue
	Assign AssignValue
}

type ConstValue struct {
	Lit value.Value
}

// IdentValue names a user variable or a temporary; the two are not distinguished.
type IdentValue struct {
	Name string
}

type UnaryValue struct {
	Op      UnaryOp
	Operand ValueID
}

type BinaryValue struct {
	Op    BinaryOp
	Left  ValueID
	Right ValueID
}

type CallValue struct {
	Target string
	Args   []ValueID
}

type AssignValue struct {
	Variable string
	Value    ValueID
}

// IsOperand reports whether v may appear directly as a Binary operand.
func (v *Value) IsOperand() bool {
	return v != nil && (v.Kind == ValueConst || v.Kind == ValueIdent)
}
