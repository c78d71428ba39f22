package ir_test

import (
	"flexir/internal/ast"
	"flexir/internal/source"
	"flexir/internal/value"
)

// treeBuilder assembles small ASTs; every node gets the same zero span.
type treeBuilder struct {
	b  *ast.Builder
	sp source.Span
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{b: ast.NewBuilder(ast.Hints{}, nil)}
}

func (t *treeBuilder) num(n int64) ast.ExprID {
	return t.b.Exprs.NewLit(t.sp, value.MakeInt(n))
}

func (t *treeBuilder) lit(v value.Value) ast.ExprID {
	return t.b.Exprs.NewLit(t.sp, v)
}

func (t *treeBuilder) ident(name string) ast.ExprID {
	return t.b.Exprs.NewIdent(t.sp, t.b.Name(name))
}

func (t *treeBuilder) bin(op ast.BinaryOp, l, r ast.ExprID) ast.ExprID {
	return t.b.Exprs.NewBinary(t.sp, op, l, r)
}

func (t *treeBuilder) unary(op ast.UnaryOp, operand ast.ExprID) ast.ExprID {
	return t.b.Exprs.NewUnary(t.sp, op, operand)
}

func (t *treeBuilder) assignTo(target, v ast.ExprID) ast.ExprID {
	return t.b.Exprs.NewAssign(t.sp, target, v)
}

func (t *treeBuilder) assign(name string, v ast.ExprID) ast.ExprID {
	return t.assignTo(t.ident(name), v)
}

func (t *treeBuilder) call(name string, args ...ast.ExprID) ast.ExprID {
	return t.b.Exprs.NewCall(t.sp, t.b.Name(name), args)
}

func (t *treeBuilder) ternary(c, a, b ast.ExprID) ast.ExprID {
	return t.b.Exprs.NewTernary(t.sp, c, a, b)
}

func (t *treeBuilder) expr(e ast.ExprID) ast.StmtID {
	return t.b.Stmts.NewExpr(t.sp, e)
}

func (t *treeBuilder) block(stmts ...ast.StmtID) ast.StmtID {
	return t.b.Stmts.NewBlock(t.sp, stmts)
}

func (t *treeBuilder) decl(name string, init ast.ExprID) ast.StmtID {
	return t.b.Stmts.NewDecl(t.sp, t.b.Name(name), init)
}

func (t *treeBuilder) callStmt(name string, args ...ast.ExprID) ast.StmtID {
	return t.b.Stmts.NewCall(t.sp, t.call(name, args...))
}

func (t *treeBuilder) ret(v ast.ExprID) ast.StmtID {
	return t.b.Stmts.NewReturn(t.sp, v)
}

func (t *treeBuilder) yield(v ast.ExprID) ast.StmtID {
	return t.b.Stmts.NewYield(t.sp, v)
}

func (t *treeBuilder) brk() ast.StmtID {
	return t.b.Stmts.NewBreak(t.sp)
}

func (t *treeBuilder) ifElse(c ast.ExprID, then, els ast.StmtID) ast.StmtID {
	return t.b.Stmts.NewTernary(t.sp, c, then, els)
}

func (t *treeBuilder) tree(stmts ...ast.StmtID) *ast.Tree {
	return ast.NewTree(t.b, 0, t.block(stmts...), nil)
}
