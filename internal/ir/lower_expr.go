package ir

import (
	"errors"

	"flexir/internal/ast"
	"flexir/internal/diag"
	"flexir/internal/source"
	"flexir/internal/value"
)

// LowerExpression returns the value of id. Anything that cannot be lowered is
// reported and yields a ValueNone, never NoValueID.
func (l *Lowerer) LowerExpression(id ast.ExprID) ValueID {
	expr := l.tree.Exprs.Get(id)
	if expr == nil {
		span := source.Span{File: l.tree.File}
		l.errorf(diag.LowMissingNode, span, "missing expression #%d", id)
		return l.prog.None(span)
	}

	switch expr.Kind {
	case ast.ExprLit:
		if data, ok := l.tree.Exprs.Lit(id); ok {
			return l.prog.Const(expr.Span, data.Value)
		}

	case ast.ExprIdent:
		if data, ok := l.tree.Exprs.Ident(id); ok {
			return l.prog.Ident(expr.Span, l.name(data.Name))
		}

	case ast.ExprAssign:
		if data, ok := l.tree.Exprs.Assign(id); ok {
			return l.lowerAssign(expr.Span, data.Target, data.Value)
		}

	case ast.ExprUnary:
		if data, ok := l.tree.Exprs.Unary(id); ok {
			return l.lowerUnary(expr.Span, data)
		}

	case ast.ExprBinary:
		if data, ok := l.tree.Exprs.Binary(id); ok {
			return l.lowerBinary(expr.Span, data)
		}

	case ast.ExprCall:
		if data, ok := l.tree.Exprs.Call(id); ok {
			args := l.lowerArgs(data.Args)
			return l.prog.Call(expr.Span, l.name(data.Target), args)
		}

	case ast.ExprTernary:
		if data, ok := l.tree.Exprs.Ternary(id); ok {
			return l.lowerTernary(expr.Span, data)
		}

	default:
		l.errorf(diag.LowUnknownExpression, expr.Span, "cannot lower expression of kind %s", expr.Kind)
		return l.prog.None(expr.Span)
	}

	l.errorf(diag.LowMissingNode, expr.Span, "%s expression has no payload", expr.Kind)
	return l.prog.None(expr.Span)
}

// lowerAssign requires a plain name on the left.
func (l *Lowerer) lowerAssign(span source.Span, target, val ast.ExprID) ValueID {
	ident, ok := l.tree.Exprs.Ident(target)
	if !ok {
		targetSpan := span
		if t := l.tree.Exprs.Get(target); t != nil {
			targetSpan = t.Span
		}
		diag.ReportError(l.state.Reporter(), diag.LowAssignTarget, targetSpan,
			"left side of an assignment must be a name").
			WithNote(span, "in this assignment").
			Emit()
		return l.prog.None(span)
	}
	v := l.LowerExpression(val)
	return l.prog.Assign(span, l.name(ident.Name), v)
}

func (l *Lowerer) lowerUnary(span source.Span, data *ast.ExprUnaryData) ValueID {
	op := UnaryOpFromAST(data.Op)
	if op == UnaryNone {
		l.errorf(diag.LowUnsupportedOperator, span, "unary operator %q has no IR equivalent", data.Op.String())
		return l.prog.None(span)
	}
	operand := l.operand(l.LowerExpression(data.Operand))
	if v := l.prog.Value(operand); !l.opts.NoFold && v.Kind == ValueConst {
		res, err := FoldUnary(op, v.Const.Lit)
		if err == nil {
			return l.prog.Const(span, res)
		}
		l.warnf(diag.LowFoldOperandMismatch, span, "cannot fold %s%s: %v", op, v.Const.Lit, err)
	}
	return l.prog.Unary(span, op, operand)
}

// lowerBinary folds two constant operands and otherwise emits a three-address
// Binary whose operands are constants or names.
func (l *Lowerer) lowerBinary(span source.Span, data *ast.ExprBinaryData) ValueID {
	op := BinaryOpFromAST(data.Op)
	switch op {
	case BinaryAssign:
		return l.lowerAssign(span, data.Left, data.Right)
	case BinaryNone:
		l.errorf(diag.LowUnsupportedOperator, span, "binary operator %q has no IR equivalent", data.Op.String())
		return l.prog.None(span)
	}

	left := l.operand(l.LowerExpression(data.Left))
	right := l.operand(l.LowerExpression(data.Right))

	lv, rv := l.prog.Value(left), l.prog.Value(right)
	if !l.opts.NoFold && lv.Kind == ValueConst && rv.Kind == ValueConst {
		if folded, ok := l.fold(span, op, lv.Const.Lit, rv.Const.Lit); ok {
			return l.prog.Const(span, folded)
		}
	}
	return l.prog.Binary(span, op, left, right)
}

// fold reports a warning and declines when the operation would fault at run time.
func (l *Lowerer) fold(span source.Span, op BinaryOp, left, right value.Value) (value.Value, bool) {
	res, err := Fold(op, left, right)
	switch {
	case err == nil:
		return res, true
	case errors.Is(err, value.ErrDivisionByZero):
		l.warnf(diag.LowDivisionByZero, span, "constant %s %s %s divides by zero", left, op, right)
	default:
		l.warnf(diag.LowFoldOperandMismatch, span, "cannot fold %s %s %s: %v", left, op, right, err)
	}
	return value.Value{}, false
}

func (l *Lowerer) lowerArgs(args []ast.ExprID) []ValueID {
	out := make([]ValueID, 0, len(args))
	for _, a := range args {
		out = append(out, l.operand(l.LowerExpression(a)))
	}
	return out
}

// lowerTernary assigns each arm to one result temporary and joins in a merge block.
func (l *Lowerer) lowerTernary(span source.Span, data *ast.ExprTernaryData) ValueID {
	cond := l.operand(l.LowerExpression(data.Cond))
	result := l.state.NextTemporary()

	thenBB := l.newBlock(span)
	elseBB := l.newBlock(span)
	mergeBB := l.newBlock(span)
	l.prog.AddConditionalBranch(l.state.Current(), cond, thenBB, elseBB)

	l.startBlock(thenBB)
	l.emit(l.prog.Assign(span, result, l.LowerExpression(data.Then)))
	l.finishArm(mergeBB)

	l.state.SetCurrent(elseBB)
	l.emit(l.prog.Assign(span, result, l.LowerExpression(data.Else)))
	l.finishArm(mergeBB)

	l.state.SetCurrent(mergeBB)
	return l.prog.Ident(span, result)
}
