// Package testkit holds shared checks used by tests across packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"flexir/internal/ast"
	"flexir/internal/source"
)

// CheckSpanInvariants walks tree from its root and verifies that:
// 1) every span points at sf and ends within its content
// 2) no span ends before it starts
// 3) every child span is contained in its parent's span
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if tree.File != sf.ID {
		return fmt.Errorf("tree file id %d, want %d", tree.File, sf.ID)
	}
	limit, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := spanChecker{tree: tree, file: sf.ID, limit: limit}
	if !tree.Root.IsValid() {
		return nil
	}
	return c.stmt(tree.Root, source.Span{File: sf.ID, End: limit})
}

type spanChecker struct {
	tree  *ast.Tree
	file  source.FileID
	limit uint32
}

func (c spanChecker) check(what string, sp, parent source.Span) error {
	switch {
	case sp.File != c.file:
		return fmt.Errorf("%s span %v: file id %d, want %d", what, sp, sp.File, c.file)
	case sp.End < sp.Start:
		return fmt.Errorf("%s span %v ends before it starts", what, sp)
	case sp.End > c.limit:
		return fmt.Errorf("%s span %v ends beyond content (%d bytes)", what, sp, c.limit)
	case sp.Start < parent.Start || sp.End > parent.End:
		return fmt.Errorf("%s span %v is outside parent span %v", what, sp, parent)
	}
	return nil
}

func (c spanChecker) stmt(id ast.StmtID, parent source.Span) error {
	st := c.tree.Stmts.Get(id)
	if st == nil {
		return fmt.Errorf("nil stmt for id=%d", id)
	}
	if err := c.check(st.Kind.String(), st.Span, parent); err != nil {
		return err
	}
	sp := st.Span
	switch st.Kind {
	case ast.StmtExpr:
		data, _ := c.tree.Stmts.Expr(id)
		return c.expr(data.Expr, sp)
	case ast.StmtBlock:
		data, _ := c.tree.Stmts.Block(id)
		for _, child := range data.Stmts {
			if err := c.stmt(child, sp); err != nil {
				return err
			}
		}
	case ast.StmtDecl:
		data, _ := c.tree.Stmts.Decl(id)
		return c.optExpr(data.Init, sp)
	case ast.StmtCall:
		data, _ := c.tree.Stmts.Call(id)
		return c.expr(data.Call, sp)
	case ast.StmtYield, ast.StmtReturn:
		data, _ := c.tree.Stmts.Value(id)
		return c.optExpr(data.Value, sp)
	case ast.StmtTernary:
		data, _ := c.tree.Stmts.Ternary(id)
		if err := c.expr(data.Cond, sp); err != nil {
			return err
		}
		if err := c.stmt(data.Then, sp); err != nil {
			return err
		}
		if data.Else.IsValid() {
			return c.stmt(data.Else, sp)
		}
	}
	return nil
}

func (c spanChecker) optExpr(id ast.ExprID, parent source.Span) error {
	if !id.IsValid() {
		return nil
	}
	return c.expr(id, parent)
}

func (c spanChecker) expr(id ast.ExprID, parent source.Span) error {
	ex := c.tree.Exprs.Get(id)
	if ex == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if err := c.check(ex.Kind.String(), ex.Span, parent); err != nil {
		return err
	}
	sp := ex.Span
	switch ex.Kind {
	case ast.ExprAssign:
		data, _ := c.tree.Exprs.Assign(id)
		if err := c.optExpr(data.Target, sp); err != nil {
			return err
		}
		return c.expr(data.Value, sp)
	case ast.ExprUnary:
		data, _ := c.tree.Exprs.Unary(id)
		return c.expr(data.Operand, sp)
	case ast.ExprBinary:
		data, _ := c.tree.Exprs.Binary(id)
		if err := c.expr(data.Left, sp); err != nil {
			return err
		}
		return c.expr(data.Right, sp)
	case ast.ExprCall:
		data, _ := c.tree.Exprs.Call(id)
		for _, arg := range data.Args {
			if err := c.expr(arg, sp); err != nil {
				return err
			}
		}
	case ast.ExprTernary:
		data, _ := c.tree.Exprs.Ternary(id)
		for _, part := range []ast.ExprID{data.Cond, data.Then, data.Else} {
			if err := c.optExpr(part, sp); err != nil {
				return err
			}
		}
	}
	return nil
}
