package ir

import (
	"fmt"

	"fortio.org/safecast"

	"flexir/internal/source"
	"flexir/internal/value"
)

// Program owns the whole graph. Entry is the first block of the lowered program.
type Program struct {
	Blocks     []Block
	Values     []Value
	Entry      BlockID
	TempPrefix string // prefix of the temporaries the lowerer generated
}

func NewProgram() *Program {
	return &Program{Entry: NoBlockID, TempPrefix: DefaultTempPrefix}
}

// NewBlock appends an open, unsealed block.
func (p *Program) NewBlock(origin source.Span) BlockID {
	raw, err := safecast.Conv[int32](len(p.Blocks))
	if err != nil {
		panic(fmt.Errorf("ir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	p.Blocks = append(p.Blocks, Block{ID: id, Origin: origin, Term: Terminator{Kind: TermNone}})
	return id
}

// Block returns nil for an unknown id. The pointer is invalidated by NewBlock.
func (p *Program) Block(id BlockID) *Block {
	if p == nil || id < 0 || int(id) >= len(p.Blocks) {
		return nil
	}
	return &p.Blocks[id]
}

func (p *Program) NewValue(v *Value) ValueID {
	raw, err := safecast.Conv[int32](len(p.Values))
	if err != nil {
		panic(fmt.Errorf("ir: value id overflow: %w", err))
	}
	p.Values = append(p.Values, *v)
	return ValueID(raw)
}

// Value returns nil for an unknown id. The pointer is invalidated by NewValue.
func (p *Program) Value(id ValueID) *Value {
	if p == nil || id < 0 || int(id) >= len(p.Values) {
		return nil
	}
	return &p.Values[id]
}

func (p *Program) None(span source.Span) ValueID {
	return p.NewValue(&Value{Kind: ValueNone, Span: span})
}

func (p *Program) Const(span source.Span, lit value.Value) ValueID {
	return p.NewValue(&Value{Kind: ValueConst, Span: span, Const: ConstValue{Lit: lit}})
}

func (p *Program) Ident(span source.Span, name string) ValueID {
	return p.NewValue(&Value{Kind: ValueIdent, Span: span, Ident: IdentValue{Name: name}})
}

func (p *Program) Unary(span source.Span, op UnaryOp, operand ValueID) ValueID {
	return p.NewValue(&Value{Kind: ValueUnary, Span: span, Unary: UnaryValue{Op: op, Operand: operand}})
}

func (p *Program) Binary(span source.Span, op BinaryOp, left, right ValueID) ValueID {
	return p.NewValue(&Value{Kind: ValueBinary, Span: span, Binary: BinaryValue{Op: op, Left: left, Right: right}})
}

// Call copies args.
func (p *Program) Call(span source.Span, target string, args []ValueID) ValueID {
	return p.NewValue(&Value{
		Kind: ValueCall,
		Span: span,
		Call: CallValue{Target: target, Args: append([]ValueID(nil), args...)},
	})
}

func (p *Program) Assign(span source.Span, variable string, v ValueID) ValueID {
	return p.NewValue(&Value{Kind: ValueAssign, Span: span, Assign: AssignValue{Variable: variable, Value: v}})
}

// terminate installs t on bb unless bb is unknown or already filled.
func (p *Program) terminate(bb BlockID, t *Terminator) bool {
	b := p.Block(bb)
	if b == nil || b.Filled() {
		return false
	}
	b.Term = *t
	return true
}

func (p *Program) AddHalt(bb BlockID) {
	p.terminate(bb, &Terminator{Kind: TermHalt})
}

func (p *Program) AddReturn(bb BlockID, v ValueID) {
	p.terminate(bb, &Terminator{Kind: TermReturn, Return: ReturnTerm{Value: v}})
}

func (p *Program) AddYield(bb BlockID, v ValueID) {
	p.terminate(bb, &Terminator{Kind: TermYield, Yield: YieldTerm{Value: v}})
}

// AddBranch jumps unconditionally to target and records bb as its predecessor.
func (p *Program) AddBranch(bb, target BlockID) {
	if p.terminate(bb, &Terminator{Kind: TermBranch, Branch: BranchTerm{Target: target}}) {
		if t := p.Block(target); t != nil {
			t.addPredecessor(bb)
		}
	}
}

func (p *Program) AddBreak(bb, target BlockID) {
	if p.terminate(bb, &Terminator{Kind: TermBreak, Break: BreakTerm{Target: target}}) {
		if t := p.Block(target); t != nil {
			t.addPredecessor(bb)
		}
	}
}

// AddConditionalBranch records bb once in the predecessors of each distinct successor.
func (p *Program) AddConditionalBranch(bb BlockID, cond ValueID, thenBB, elseBB BlockID) {
	term := &Terminator{
		Kind:       TermCondBranch,
		CondBranch: CondBranchTerm{Cond: cond, Then: thenBB, Else: elseBB},
	}
	if !p.terminate(bb, term) {
		return
	}
	for _, s := range term.Successors() {
		if t := p.Block(s); t != nil {
			t.addPredecessor(bb)
		}
	}
}

// Successors lists the blocks bb's terminator can transfer to.
func (p *Program) Successors(bb BlockID) []BlockID {
	b := p.Block(bb)
	if b == nil {
		return nil
	}
	return b.Term.Successors()
}

// Reachable returns a mask over Blocks of everything reachable from Entry.
// Each edge is followed once, so shared merge blocks are visited once.
func (p *Program) Reachable() []bool {
	seen := make([]bool, len(p.Blocks))
	if p.Block(p.Entry) == nil {
		return seen
	}
	stack := []BlockID{p.Entry}
	seen[p.Entry] = true
	for len(stack) > 0 {
		bb := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range p.Successors(bb) {
			if p.Block(s) == nil || seen[s] {
				continue
			}
			seen[s] = true
			stack = append(stack, s)
		}
	}
	return seen
}

// Destroy releases every block and value. It is safe to call twice.
func (p *Program) Destroy() {
	if p == nil {
		return
	}
	clear(p.Blocks)
	clear(p.Values)
	p.Blocks = nil
	p.Values = nil
	p.Entry = NoBlockID
}
