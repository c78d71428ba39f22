package ast

import (
	"flexir/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtExpr evaluates an expression for its effect.
	StmtExpr StmtKind = iota
	StmtBlock
	// StmtDecl declares a variable with an optional initializer.
	StmtDecl
	// StmtCall is a bare call statement.
	StmtCall
	StmtBreak
	StmtYield
	StmtReturn
	// StmtTernary is `if cond { ... } else { ... }`; the else arm is optional.
	StmtTernary
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "expr"
	case StmtBlock:
		return "block"
	case StmtDecl:
		return "decl"
	case StmtCall:
		return "call"
	case StmtBreak:
		return "break"
	case StmtYield:
		return "yield"
	case StmtReturn:
		return "return"
	case StmtTernary:
		return "if"
	default:
		return "stmt?"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtExprData struct {
	Expr ExprID
}

type StmtBlockData struct {
	Stmts []StmtID
}

type StmtDeclData struct {
	Name source.StringID
	Init ExprID // NoExprID when absent
}

// StmtCallData points at an ExprCall.
type StmtCallData struct {
	Call ExprID
}

// StmtValueData carries the operand of yield and return.
type StmtValueData struct {
	Value ExprID
}

type StmtTernaryData struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID when absent
}

// Stmts manages allocation of statements.
type Stmts struct {
	Arena     *Arena[Stmt]
	Exprs     *Arena[StmtExprData]
	Blocks    *Arena[StmtBlockData]
	Decls     *Arena[StmtDeclData]
	Calls     *Arena[StmtCallData]
	Values    *Arena[StmtValueData]
	Ternaries *Arena[StmtTernaryData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Exprs:     NewArena[StmtExprData](capHint),
		Blocks:    NewArena[StmtBlockData](capHint / 4),
		Decls:     NewArena[StmtDeclData](capHint / 2),
		Calls:     NewArena[StmtCallData](capHint / 4),
		Values:    NewArena[StmtValueData](capHint / 4),
		Ternaries: NewArena[StmtTernaryData](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (PayloadID, bool) {
	stmt := s.Get(id)
	if stmt == nil {
		return NoPayloadID, false
	}
	for _, k := range kinds {
		if stmt.Kind == k {
			return stmt.Payload, true
		}
	}
	return NoPayloadID, false
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(uint32(p)), true
}

// NewBlock copies stmts.
func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(StmtBlockData{Stmts: append([]StmtID(nil), stmts...)})
	return s.new(StmtBlock, span, payload)
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(uint32(p)), true
}

func (s *Stmts) NewDecl(span source.Span, name source.StringID, init ExprID) StmtID {
	return s.new(StmtDecl, span, s.Decls.Allocate(StmtDeclData{Name: name, Init: init}))
}

func (s *Stmts) Decl(id StmtID) (*StmtDeclData, bool) {
	p, ok := s.payload(id, StmtDecl)
	if !ok {
		return nil, false
	}
	return s.Decls.Get(uint32(p)), true
}

func (s *Stmts) NewCall(span source.Span, call ExprID) StmtID {
	return s.new(StmtCall, span, s.Calls.Allocate(StmtCallData{Call: call}))
}

func (s *Stmts) Call(id StmtID) (*StmtCallData, bool) {
	p, ok := s.payload(id, StmtCall)
	if !ok {
		return nil, false
	}
	return s.Calls.Get(uint32(p)), true
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, 0)
}

func (s *Stmts) NewYield(span source.Span, val ExprID) StmtID {
	return s.new(StmtYield, span, s.Values.Allocate(StmtValueData{Value: val}))
}

func (s *Stmts) NewReturn(span source.Span, val ExprID) StmtID {
	return s.new(StmtReturn, span, s.Values.Allocate(StmtValueData{Value: val}))
}

// Value returns the operand of a yield or return statement.
func (s *Stmts) Value(id StmtID) (*StmtValueData, bool) {
	p, ok := s.payload(id, StmtYield, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Values.Get(uint32(p)), true
}

func (s *Stmts) NewTernary(span source.Span, cond ExprID, thenStmt, elseStmt StmtID) StmtID {
	payload := s.Ternaries.Allocate(StmtTernaryData{Cond: cond, Then: thenStmt, Else: elseStmt})
	return s.new(StmtTernary, span, payload)
}

func (s *Stmts) Ternary(id StmtID) (*StmtTernaryData, bool) {
	p, ok := s.payload(id, StmtTernary)
	if !ok {
		return nil, false
	}
	return s.Ternaries.Get(uint32(p)), true
}
