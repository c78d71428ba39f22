package ast

import (
	"flexir/internal/source"
	"flexir/internal/value"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	ExprLit ExprKind = iota
	ExprIdent
	// ExprAssign is `target = value` used as an expression.
	ExprAssign
	ExprUnary
	ExprBinary
	ExprCall
	// ExprTernary is `cond ? then : else`.
	ExprTernary
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "lit"
	case ExprIdent:
		return "ident"
	case ExprAssign:
		return "assign"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprCall:
		return "call"
	case ExprTernary:
		return "ternary"
	default:
		return "expr?"
	}
}

// Expr is the common header; kind-specific data lives in a payload arena.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitData struct {
	Value value.Value
}

type ExprIdentData struct {
	Name source.StringID
}

type ExprAssignData struct {
	Target ExprID
	Value  ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// ExprCallData calls a function by name.
type ExprCallData struct {
	Target source.StringID
	Args   []ExprID
}

type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Lits      *Arena[ExprLitData]
	Idents    *Arena[ExprIdentData]
	Assigns   *Arena[ExprAssignData]
	Unaries   *Arena[ExprUnaryData]
	Binaries  *Arena[ExprBinaryData]
	Calls     *Arena[ExprCallData]
	Ternaries *Arena[ExprTernaryData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Lits:      NewArena[ExprLitData](capHint),
		Idents:    NewArena[ExprIdentData](capHint),
		Assigns:   NewArena[ExprAssignData](capHint / 4),
		Unaries:   NewArena[ExprUnaryData](capHint / 4),
		Binaries:  NewArena[ExprBinaryData](capHint),
		Calls:     NewArena[ExprCallData](capHint / 4),
		Ternaries: NewArena[ExprTernaryData](capHint / 8),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (PayloadID, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return NoPayloadID, false
	}
	return expr.Payload, true
}

func (e *Exprs) NewLit(span source.Span, v value.Value) ExprID {
	return e.new(ExprLit, span, e.Lits.Allocate(ExprLitData{Value: v}))
}

func (e *Exprs) Lit(id ExprID) (*ExprLitData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Lits.Get(uint32(p)), true
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(uint32(p)), true
}

func (e *Exprs) NewAssign(span source.Span, target, val ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Target: target, Value: val}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(uint32(p)), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(uint32(p)), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(uint32(p)), true
}

// NewCall copies args.
func (e *Exprs) NewCall(span source.Span, target source.StringID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{
		Target: target,
		Args:   append([]ExprID(nil), args...),
	})
	return e.new(ExprCall, span, payload)
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(uint32(p)), true
}

func (e *Exprs) NewTernary(span source.Span, cond, thenExpr, elseExpr ExprID) ExprID {
	payload := e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: thenExpr, Else: elseExpr})
	return e.new(ExprTernary, span, payload)
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	if !ok {
		return nil, false
	}
	return e.Ternaries.Get(uint32(p)), true
}
