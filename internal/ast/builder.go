package ast

import (
	"flexir/internal/source"
)

type Hints struct{ Stmts, Exprs uint }

// Builder owns every arena of one tree plus the identifier interner.
type Builder struct {
	Stmts   *Stmts
	Exprs   *Exprs
	Strings *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Strings: strings,
	}
}

// Name interns an identifier.
func (b *Builder) Name(s string) source.StringID {
	return b.Strings.Intern(s)
}

// NameOf resolves an interned identifier; unknown ids yield "".
func (b *Builder) NameOf(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}
