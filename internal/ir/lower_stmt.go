package ir

import (
	"flexir/internal/ast"
	"flexir/internal/diag"
	"flexir/internal/source"
)

// LowerStatement appends the lowering of id to the current block, creating
// blocks as control flow requires.
func (l *Lowerer) LowerStatement(id ast.StmtID) {
	stmt := l.tree.Stmts.Get(id)
	if stmt == nil {
		l.errorf(diag.LowMissingNode, source.Span{File: l.tree.File}, "missing statement #%d", id)
		return
	}

	switch stmt.Kind {
	case ast.StmtExpr:
		data, ok := l.tree.Stmts.Expr(id)
		if !ok {
			l.missingPayload(stmt)
			return
		}
		l.lowerExprStmt(stmt.Span, data.Expr)

	case ast.StmtBlock:
		data, ok := l.tree.Stmts.Block(id)
		if !ok {
			l.missingPayload(stmt)
			return
		}
		l.lowerBlockStmt(data.Stmts)

	case ast.StmtDecl:
		data, ok := l.tree.Stmts.Decl(id)
		if !ok {
			l.missingPayload(stmt)
			return
		}
		var init ValueID
		if data.Init.IsValid() {
			init = l.LowerExpression(data.Init)
		} else {
			init = l.prog.None(stmt.Span)
		}
		l.emit(l.prog.Assign(stmt.Span, l.name(data.Name), init))

	case ast.StmtCall:
		data, ok := l.tree.Stmts.Call(id)
		if !ok {
			l.missingPayload(stmt)
			return
		}
		l.lowerCallStmt(stmt, data.Call)

	case ast.StmtBreak:
		next := l.newBlock(stmt.Span)
		l.prog.AddBranch(l.state.Current(), next)
		l.startBlock(next)

	case ast.StmtYield, ast.StmtReturn:
		var v ValueID
		if data, ok := l.tree.Stmts.Value(id); ok && data.Value.IsValid() {
			v = l.LowerExpression(data.Value)
		} else {
			v = l.prog.None(stmt.Span)
		}
		if stmt.Kind == ast.StmtYield {
			l.prog.AddYield(l.state.Current(), v)
		} else {
			l.prog.AddReturn(l.state.Current(), v)
		}
		l.startBlock(l.newBlock(stmt.Span))

	case ast.StmtTernary:
		data, ok := l.tree.Stmts.Ternary(id)
		if !ok {
			l.missingPayload(stmt)
			return
		}
		l.lowerIfStmt(stmt.Span, data)

	default:
		l.errorf(diag.LowUnknownStatement, stmt.Span, "cannot lower statement of kind %s", stmt.Kind)
	}
}

// lowerExprStmt appends an assignment as is and binds any other value to a temporary.
func (l *Lowerer) lowerExprStmt(span source.Span, expr ast.ExprID) {
	v := l.LowerExpression(expr)
	if l.prog.Value(v).Kind == ValueAssign {
		l.emit(v)
		return
	}
	l.emit(l.prog.Assign(span, l.state.NextTemporary(), v))
}

// lowerBlockStmt lowers stmts in order and notes the first statement that
// follows a return or yield. A break continues in its branch target, so the
// code after it stays reachable.
func (l *Lowerer) lowerBlockStmt(stmts []ast.StmtID) {
	diverged := false
	for _, s := range stmts {
		if diverged {
			if st := l.tree.Stmts.Get(s); st != nil {
				diag.ReportInfo(l.state.Reporter(), diag.LowUnreachableCode, st.Span,
					"statement is unreachable").Emit()
			}
			diverged = false
		}
		l.LowerStatement(s)
		if st := l.tree.Stmts.Get(s); st != nil {
			switch st.Kind {
			case ast.StmtReturn, ast.StmtYield:
				diverged = true
			}
		}
	}
}

// lowerCallStmt lowers the arguments for their side effects and records the call
// without attaching anything to the block.
func (l *Lowerer) lowerCallStmt(stmt *ast.Stmt, callID ast.ExprID) {
	call, ok := l.tree.Exprs.Call(callID)
	if !ok {
		l.errorf(diag.LowMissingNode, stmt.Span, "call statement without a call expression")
		return
	}
	args := l.lowerArgs(call.Args)
	l.curBlock().AddCall(l.name(call.Target), args)
}

// lowerIfStmt builds then, else and merge blocks. Arms that end open branch to
// merge; a missing else arm leaves an empty else block that does the same.
func (l *Lowerer) lowerIfStmt(span source.Span, data *ast.StmtTernaryData) {
	cond := l.operand(l.LowerExpression(data.Cond))

	thenBB := l.newBlock(span)
	elseBB := l.newBlock(span)
	mergeBB := l.newBlock(span)
	l.prog.AddConditionalBranch(l.state.Current(), cond, thenBB, elseBB)

	l.startBlock(thenBB)
	l.LowerStatement(data.Then)
	l.finishArm(mergeBB)

	l.state.SetCurrent(elseBB)
	if data.Else.IsValid() {
		l.LowerStatement(data.Else)
	}
	l.finishArm(mergeBB)

	l.state.SetCurrent(mergeBB)
}

// finishArm branches the current block to merge unless it is already filled, then seals it.
func (l *Lowerer) finishArm(merge BlockID) {
	cur := l.state.Current()
	if !l.prog.Block(cur).Filled() {
		l.prog.AddBranch(cur, merge)
	}
	l.prog.Block(cur).Seal()
}

func (l *Lowerer) missingPayload(stmt *ast.Stmt) {
	l.errorf(diag.LowMissingNode, stmt.Span, "%s statement has no payload", stmt.Kind)
}
