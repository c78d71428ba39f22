package astio

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"flexir/internal/ast"
	"flexir/internal/diag"
	"flexir/internal/source"
	"flexir/internal/value"
)

// ErrMalformed marks structural problems in a document tree.
var ErrMalformed = errors.New("malformed document")

var literalKinds = map[string]value.Kind{
	"none":   value.KindNone,
	"int":    value.KindInt,
	"float":  value.KindFloat,
	"bool":   value.KindBool,
	"string": value.KindString,
	"char":   value.KindChar,
}

type treeBuilder struct {
	b      *ast.Builder
	file   source.FileID
	path   string
	srcLen int
}

// Build allocates doc's tree into fresh arenas and registers its source text in a
// new FileSet. Parser diagnostics end up in the tree's bag.
func Build(doc *Document) (*ast.Tree, *source.FileSet, error) {
	fs := source.NewFileSet()
	tree, err := BuildInto(doc, fs)
	if err != nil {
		return nil, nil, err
	}
	return tree, fs, nil
}

// BuildInto is Build with a caller-owned FileSet.
func BuildInto(doc *Document, fs *source.FileSet) (*ast.Tree, error) {
	if doc == nil {
		return nil, fmt.Errorf("astio: %w: nil document", ErrMalformed)
	}
	if err := CheckSchema(doc); err != nil {
		return nil, err
	}
	file := fs.AddVirtual(doc.Path, []byte(doc.Source))
	tb := &treeBuilder{
		b:      ast.NewBuilder(hintsFor(doc.Root), nil),
		file:   file,
		path:   doc.Path,
		srcLen: len(doc.Source),
	}

	diags := diag.NewBag(0)
	for i, d := range doc.Diagnostics {
		sev, ok := diag.ParseSeverity(d.Severity)
		if !ok {
			return nil, tb.fail(nil, "diagnostic %d: unknown severity %q", i, d.Severity)
		}
		if err := tb.checkRange(d.Start, d.End); err != nil {
			return nil, tb.fail(nil, "diagnostic %d: %v", i, err)
		}
		code := diag.Code(d.Code)
		if code == diag.UnknownCode {
			code = diag.SynUnexpectedToken
		}
		diags.Add(&diag.Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  d.Message,
			Primary:  source.Span{File: file, Start: d.Start, End: d.End},
		})
	}

	root := ast.NoStmtID
	if doc.Root != nil {
		var err error
		if root, err = tb.stmt(doc.Root); err != nil {
			return nil, err
		}
	}
	return ast.NewTree(tb.b, file, root, diags), nil
}

func hintsFor(root *Node) ast.Hints {
	var count uint
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		count++
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return ast.Hints{Stmts: count, Exprs: count}
}

// span rejects ranges that are inverted or run past the source text.
func (tb *treeBuilder) span(n *Node) (source.Span, error) {
	if err := tb.checkRange(n.Start, n.End); err != nil {
		return source.Span{}, tb.fail(n, "%v", err)
	}
	return source.Span{File: tb.file, Start: n.Start, End: n.End}, nil
}

func (tb *treeBuilder) checkRange(start, end uint32) error {
	switch {
	case end < start:
		return fmt.Errorf("span %d..%d ends before it starts", start, end)
	case int(end) > tb.srcLen:
		return fmt.Errorf("span %d..%d runs past the source (%d bytes)", start, end, tb.srcLen)
	}
	return nil
}

func (tb *treeBuilder) name(s string) source.StringID {
	return tb.b.Name(norm.NFC.String(s))
}

func (tb *treeBuilder) fail(n *Node, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if n != nil {
		return fmt.Errorf("astio: %s: %w: %s node at %d: %s", tb.path, ErrMalformed, n.Kind, n.Start, msg)
	}
	return fmt.Errorf("astio: %s: %w: %s", tb.path, ErrMalformed, msg)
}

func (tb *treeBuilder) arity(n *Node, lo, hi int) error {
	if got := len(n.Children); got < lo || got > hi {
		if lo == hi {
			return tb.fail(n, "want %d children, got %d", lo, got)
		}
		return tb.fail(n, "want %d..%d children, got %d", lo, hi, got)
	}
	return nil
}

func (tb *treeBuilder) optExpr(n *Node) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, nil
	}
	return tb.expr(n)
}

func (tb *treeBuilder) optStmt(n *Node) (ast.StmtID, error) {
	if n == nil {
		return ast.NoStmtID, nil
	}
	return tb.stmt(n)
}

func (tb *treeBuilder) stmt(n *Node) (ast.StmtID, error) {
	stmts := tb.b.Stmts
	sp, err := tb.span(n)
	if err != nil {
		return ast.NoStmtID, err
	}
	switch n.Kind {
	case KindBlock:
		ids := make([]ast.StmtID, 0, len(n.Children))
		for _, c := range n.Children {
			if c == nil {
				return ast.NoStmtID, tb.fail(n, "nil statement")
			}
			id, err := tb.stmt(c)
			if err != nil {
				return ast.NoStmtID, err
			}
			ids = append(ids, id)
		}
		return stmts.NewBlock(sp, ids), nil
	case KindExpr:
		if err := tb.arity(n, 1, 1); err != nil {
			return ast.NoStmtID, err
		}
		e, err := tb.optExpr(n.Child(0))
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewExpr(sp, e), nil
	case KindDecl:
		if n.Name == "" {
			return ast.NoStmtID, tb.fail(n, "missing name")
		}
		if err := tb.arity(n, 0, 1); err != nil {
			return ast.NoStmtID, err
		}
		init, err := tb.optExpr(n.Child(0))
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewDecl(sp, tb.name(n.Name), init), nil
	case KindCall:
		call, err := tb.callExpr(n)
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewCall(sp, call), nil
	case KindBreak:
		if err := tb.arity(n, 0, 0); err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewBreak(sp), nil
	case KindYield, KindReturn:
		if err := tb.arity(n, 0, 1); err != nil {
			return ast.NoStmtID, err
		}
		v, err := tb.optExpr(n.Child(0))
		if err != nil {
			return ast.NoStmtID, err
		}
		if n.Kind == KindYield {
			return stmts.NewYield(sp, v), nil
		}
		return stmts.NewReturn(sp, v), nil
	case KindIf:
		if err := tb.arity(n, 2, 3); err != nil {
			return ast.NoStmtID, err
		}
		cond, err := tb.optExpr(n.Child(0))
		if err != nil {
			return ast.NoStmtID, err
		}
		thenStmt, err := tb.optStmt(n.Child(1))
		if err != nil {
			return ast.NoStmtID, err
		}
		elseStmt, err := tb.optStmt(n.Child(2))
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewTernary(sp, cond, thenStmt, elseStmt), nil
	default:
		return ast.NoStmtID, tb.fail(n, "not a statement")
	}
}

func (tb *treeBuilder) expr(n *Node) (ast.ExprID, error) {
	exprs := tb.b.Exprs
	sp, err := tb.span(n)
	if err != nil {
		return ast.NoExprID, err
	}
	switch n.Kind {
	case KindLit:
		if n.Lit == nil {
			return ast.NoExprID, tb.fail(n, "missing literal")
		}
		kind, ok := literalKinds[strings.ToLower(n.Lit.Kind)]
		if !ok {
			return ast.NoExprID, tb.fail(n, "unknown literal kind %q", n.Lit.Kind)
		}
		v, err := value.Parse(kind, n.Lit.Value)
		if err != nil {
			return ast.NoExprID, tb.fail(n, "%v", err)
		}
		if kind == value.KindString {
			v = value.MakeString(norm.NFC.String(v.Str))
		}
		return exprs.NewLit(sp, v), nil
	case KindIdent:
		if n.Name == "" {
			return ast.NoExprID, tb.fail(n, "missing name")
		}
		return exprs.NewIdent(sp, tb.name(n.Name)), nil
	case KindAssign:
		if err := tb.arity(n, 2, 2); err != nil {
			return ast.NoExprID, err
		}
		target, err := tb.optExpr(n.Children[0])
		if err != nil {
			return ast.NoExprID, err
		}
		val, err := tb.optExpr(n.Children[1])
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewAssign(sp, target, val), nil
	case KindUnary:
		if err := tb.arity(n, 1, 1); err != nil {
			return ast.NoExprID, err
		}
		op, ok := ast.ParseUnaryOp(n.Op)
		if !ok {
			return ast.NoExprID, tb.fail(n, "unknown unary operator %q", n.Op)
		}
		operand, err := tb.optExpr(n.Child(0))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewUnary(sp, op, operand), nil
	case KindBinary:
		if err := tb.arity(n, 2, 2); err != nil {
			return ast.NoExprID, err
		}
		op, ok := ast.ParseBinaryOp(n.Op)
		if !ok {
			return ast.NoExprID, tb.fail(n, "unknown binary operator %q", n.Op)
		}
		left, err := tb.optExpr(n.Child(0))
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := tb.optExpr(n.Child(1))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewBinary(sp, op, left, right), nil
	case KindCall:
		return tb.callExpr(n)
	case KindTernary:
		if err := tb.arity(n, 3, 3); err != nil {
			return ast.NoExprID, err
		}
		var ids [3]ast.ExprID
		for i := range ids {
			id, err := tb.optExpr(n.Children[i])
			if err != nil {
				return ast.NoExprID, err
			}
			ids[i] = id
		}
		return exprs.NewTernary(sp, ids[0], ids[1], ids[2]), nil
	default:
		return ast.NoExprID, tb.fail(n, "not an expression")
	}
}

func (tb *treeBuilder) callExpr(n *Node) (ast.ExprID, error) {
	sp, err := tb.span(n)
	if err != nil {
		return ast.NoExprID, err
	}
	if n.Name == "" {
		return ast.NoExprID, tb.fail(n, "missing callee")
	}
	args := make([]ast.ExprID, 0, len(n.Children))
	for _, c := range n.Children {
		id, err := tb.optExpr(c)
		if err != nil {
			return ast.NoExprID, err
		}
		args = append(args, id)
	}
	return tb.b.Exprs.NewCall(sp, tb.name(n.Name), args), nil
}
