package ir

import (
	"fmt"

	"flexir/internal/ast"
	"flexir/internal/diag"
	"flexir/internal/source"
	"flexir/internal/trace"
)

// Options tunes a lowering pass. The zero value is ready to use.
type Options struct {
	TempPrefix     string // DefaultTempPrefix when empty
	NoFold         bool
	MaxDiagnostics int // 0 means unbounded
	Tracer         trace.Tracer
	ParentSpan     uint64
}

// Lowerer turns one ast.Tree into a Program. It is not safe for concurrent use;
// reuse across passes is fine since GenerateFromAST resets all state.
type Lowerer struct {
	opts   Options
	tree   *ast.Tree
	prog   *Program
	state  *State
	diags  *diag.Bag
	tracer trace.Tracer
}

func NewLowerer(opts Options) *Lowerer {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Lowerer{opts: opts, tracer: tracer}
}

// GenerateFromAST lowers tree with a fresh Lowerer and returns the program with
// the diagnostics the pass produced.
func GenerateFromAST(tree *ast.Tree, opts Options) (*Program, *diag.Bag) {
	l := NewLowerer(opts)
	prog := l.GenerateFromAST(tree)
	return prog, l.Diagnostics()
}

// GenerateFromAST always allocates the entry block. When the tree carries parse
// diagnostics nothing is lowered and the entry block stays open; otherwise the
// root statement, if any, is lowered and the final insertion block is halted.
func (l *Lowerer) GenerateFromAST(tree *ast.Tree) *Program {
	l.diags = diag.NewBag(l.opts.MaxDiagnostics)
	l.state = NewState(l.opts.TempPrefix, diag.BagReporter{Bag: l.diags})
	l.prog = NewProgram()
	if l.opts.TempPrefix != "" {
		l.prog.TempPrefix = l.opts.TempPrefix
	}
	l.tree = tree

	var origin source.Span
	if tree != nil {
		origin.File = tree.File
		if root := tree.Stmts.Get(tree.Root); root != nil {
			origin = root.Span
		}
	}
	entry := l.newBlock(origin)
	l.prog.Entry = entry
	l.state.SetCurrent(entry)

	if tree == nil {
		l.errorf(diag.LowMissingNode, origin, "no AST to lower")
		return l.prog
	}
	if tree.HasDiagnostics() {
		return l.prog
	}

	if tree.Root.IsValid() {
		l.LowerStatement(tree.Root)
	}
	l.prog.AddHalt(l.state.Current())
	return l.prog
}

// Diagnostics returns the bag of the most recent pass.
func (l *Lowerer) Diagnostics() *diag.Bag { return l.diags }

// State exposes the insertion point and temporary counter of the most recent pass.
func (l *Lowerer) State() *State { return l.state }

func (l *Lowerer) Program() *Program { return l.prog }

func (l *Lowerer) newBlock(origin source.Span) BlockID {
	id := l.prog.NewBlock(origin)
	trace.Point(l.tracer, trace.ScopeNode, "block", fmt.Sprintf("bb%d", id), l.opts.ParentSpan)
	return id
}

func (l *Lowerer) curBlock() *Block {
	return l.prog.Block(l.state.Current())
}

// startBlock seals the current block and continues in next.
func (l *Lowerer) startBlock(next BlockID) {
	if b := l.curBlock(); b != nil {
		b.Seal()
	}
	l.state.SetCurrent(next)
}

func (l *Lowerer) emit(assign ValueID) {
	if b := l.curBlock(); b != nil {
		b.AddAssignment(assign)
	}
}

// bindTemp stores v in a fresh temporary and returns an identifier for it.
func (l *Lowerer) bindTemp(span source.Span, v ValueID) ValueID {
	name := l.state.NextTemporary()
	l.emit(l.prog.Assign(span, name, v))
	return l.prog.Ident(span, name)
}

// operand keeps constants and identifiers and materialises everything else.
func (l *Lowerer) operand(v ValueID) ValueID {
	val := l.prog.Value(v)
	if val.IsOperand() {
		return v
	}
	return l.bindTemp(val.Span, v)
}

func (l *Lowerer) name(id source.StringID) string {
	return l.tree.NameOf(id)
}

func (l *Lowerer) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(l.state.Reporter(), code, span, fmt.Sprintf(format, args...)).Emit()
}

func (l *Lowerer) warnf(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(l.state.Reporter(), code, span, fmt.Sprintf(format, args...)).Emit()
}
