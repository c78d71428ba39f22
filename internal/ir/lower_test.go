package ir_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"flexir/internal/ast"
	"flexir/internal/diag"
	"flexir/internal/ir"
	"flexir/internal/source"
	"flexir/internal/trace"
	"flexir/internal/value"
)

func dump(t *testing.T, p *ir.Program, opts ir.DumpOptions) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ir.Dump(&buf, p, opts); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return buf.String()
}

func lower(t *testing.T, tree *ast.Tree, opts ir.Options) (*ir.Program, *diag.Bag) {
	t.Helper()
	prog, bag := ir.GenerateFromAST(tree, opts)
	if prog == nil || bag == nil {
		t.Fatal("GenerateFromAST returned nil")
	}
	return prog, bag
}

func expectDump(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("unexpected IR:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestAssignmentOfConstantSumFolds(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.bin(ast.BinaryAdd, tb.num(1), tb.num(2)))))

	l := ir.NewLowerer(ir.Options{})
	prog := l.GenerateFromAST(tree)

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = 3\n  halt\n")
	if n := l.State().Temporaries(); n != 0 {
		t.Fatalf("temporaries: got %d, want 0", n)
	}
	if l.Diagnostics().Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", l.Diagnostics().Items())
	}
}

func TestFoldEveryBinaryOperator(t *testing.T) {
	tests := []struct {
		op          ast.BinaryOp
		left, right value.Value
		want        string
	}{
		{ast.BinaryAdd, value.MakeInt(7), value.MakeInt(3), "10"},
		{ast.BinarySub, value.MakeInt(7), value.MakeInt(3), "4"},
		{ast.BinaryMul, value.MakeInt(7), value.MakeInt(3), "21"},
		{ast.BinaryDiv, value.MakeInt(7), value.MakeInt(3), "2"},
		{ast.BinaryMod, value.MakeInt(7), value.MakeInt(3), "1"},
		{ast.BinaryBitAnd, value.MakeInt(6), value.MakeInt(3), "2"},
		{ast.BinaryBitOr, value.MakeInt(6), value.MakeInt(3), "7"},
		{ast.BinaryBitXor, value.MakeInt(6), value.MakeInt(3), "5"},
		{ast.BinaryEq, value.MakeInt(7), value.MakeInt(3), "false"},
		{ast.BinaryNotEq, value.MakeInt(7), value.MakeInt(3), "true"},
		{ast.BinaryGreater, value.MakeInt(7), value.MakeInt(3), "true"},
		{ast.BinaryGreaterEq, value.MakeInt(3), value.MakeInt(3), "true"},
		{ast.BinaryLess, value.MakeInt(7), value.MakeInt(3), "false"},
		{ast.BinaryLessEq, value.MakeInt(7), value.MakeInt(3), "false"},
		{ast.BinaryLogicalAnd, value.MakeBool(true), value.MakeBool(false), "false"},
		{ast.BinaryLogicalOr, value.MakeBool(true), value.MakeBool(false), "true"},
		{ast.BinaryAdd, value.MakeString("fl"), value.MakeString("ex"), `"flex"`},
		{ast.BinaryMul, value.MakeFloat(1.5), value.MakeInt(2), "3.0"},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			tb := newTreeBuilder()
			tree := tb.tree(tb.expr(tb.assign("x", tb.bin(tt.op, tb.lit(tt.left), tb.lit(tt.right)))))
			prog, bag := lower(t, tree, ir.Options{})

			entry := prog.Block(prog.Entry)
			if len(entry.Assigns) != 1 {
				t.Fatalf("assigns: got %d, want 1", len(entry.Assigns))
			}
			if got := prog.FormatValue(entry.Assigns[0]); got != "x = "+tt.want {
				t.Fatalf("got %q, want %q", got, "x = "+tt.want)
			}
			assign := prog.Value(entry.Assigns[0])
			if prog.Value(assign.Assign.Value).Kind != ir.ValueConst {
				t.Fatal("folded value is not a constant")
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %d", bag.Len())
			}
		})
	}
}

func TestFoldDivisionByZeroKeepsBinary(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.bin(ast.BinaryDiv, tb.num(1), tb.num(0)))))
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = 1 / 0\n  halt\n")
	if bag.HasErrors() || bag.Len() != 1 || bag.Items()[0].Code != diag.LowDivisionByZero {
		t.Fatalf("expected one division warning, got %v", bag.Items())
	}
}

func TestFoldMismatchKeepsBinary(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.bin(ast.BinarySub, tb.lit(value.MakeString("a")), tb.num(1)))))
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = \"a\" - 1\n  halt\n")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LowFoldOperandMismatch {
		t.Fatalf("expected one mismatch warning, got %v", bag.Items())
	}
}

func TestNoFoldOption(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.bin(ast.BinaryAdd, tb.num(1), tb.num(2)))))
	prog, _ := lower(t, tree, ir.Options{NoFold: true})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = 1 + 2\n  halt\n")
}

func TestBinaryOperandsAreMaterialised(t *testing.T) {
	tb := newTreeBuilder()
	sum := tb.bin(ast.BinaryAdd, tb.ident("a"), tb.bin(ast.BinaryMul, tb.ident("b"), tb.ident("c")))
	tree := tb.tree(tb.expr(tb.assign("y", sum)))
	prog, _ := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  __tmp0 = b * c\n  y = a + __tmp0\n  halt\n")
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestExpressionStatementBindsTemporary(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.expr(tb.bin(ast.BinaryAdd, tb.ident("a"), tb.num(1))),
		tb.expr(tb.call("f", tb.bin(ast.BinaryAdd, tb.ident("a"), tb.ident("b")), tb.ident("c"))),
	)
	l := ir.NewLowerer(ir.Options{})
	prog := l.GenerateFromAST(tree)

	want := "bb0:\n" +
		"  __tmp0 = a + 1\n" +
		"  __tmp1 = a + b\n" +
		"  __tmp2 = f(__tmp1, c)\n" +
		"  halt\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{}), want)
	if n := l.State().Temporaries(); n != 3 {
		t.Fatalf("temporaries: got %d, want 3", n)
	}
}

func TestTemporariesAreUnique(t *testing.T) {
	tb := newTreeBuilder()
	var stmts []ast.StmtID
	for range 5 {
		stmts = append(stmts, tb.expr(tb.bin(ast.BinaryMul,
			tb.bin(ast.BinaryAdd, tb.ident("a"), tb.ident("b")),
			tb.bin(ast.BinarySub, tb.ident("c"), tb.ident("d")))))
	}
	prog, _ := lower(t, tb.tree(stmts...), ir.Options{})

	seen := map[string]bool{}
	for _, id := range prog.Block(prog.Entry).Assigns {
		name := prog.Value(id).Assign.Variable
		if seen[name] {
			t.Fatalf("temporary %s assigned twice", name)
		}
		seen[name] = true
	}
	if len(seen) != 15 {
		t.Fatalf("got %d temporaries, want 15", len(seen))
	}
}

func TestCustomTempPrefix(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.ident("a")))
	prog, _ := lower(t, tree, ir.Options{TempPrefix: "t"})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  t0 = a\n  halt\n")
	if prog.TempPrefix != "t" {
		t.Fatalf("prefix: got %q", prog.TempPrefix)
	}
}

func TestCallStatementIsInert(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.callStmt("print", tb.bin(ast.BinaryAdd, tb.ident("a"), tb.num(1)), tb.ident("b")))
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  __tmp0 = a + 1\n  halt\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestDeclarations(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.decl("x", tb.bin(ast.BinaryMul, tb.num(2), tb.num(21))),
		tb.decl("y", ast.NoExprID),
	)
	prog, _ := lower(t, tree, ir.Options{})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = 42\n  y = NONE\n  halt\n")
}

func TestNestedAssignment(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.assign("y", tb.num(3)))))
	prog, _ := lower(t, tree, ir.Options{})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = y = 3\n  halt\n")
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestReturnOpensFreshUnsealedBlock(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.ret(tb.bin(ast.BinaryAdd, tb.num(1), tb.num(2))),
		tb.expr(tb.assign("x", tb.num(5))),
	)
	prog, bag := lower(t, tree, ir.Options{})

	if len(prog.Blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(prog.Blocks))
	}
	first, next := prog.Block(0), prog.Block(1)
	if first.Term.Kind != ir.TermReturn || prog.FormatValue(first.Term.Return.Value) != "3" {
		t.Fatalf("entry terminator: %s", prog.FormatTerm(&first.Term))
	}
	if !first.Sealed {
		t.Fatal("returning block must be sealed")
	}
	if next.Sealed || len(next.Preds) != 0 {
		t.Fatalf("continuation must be unsealed with no predecessors: %+v", next)
	}

	want := "bb0:\n  return 3\nbb1: ; unreachable\n  x = 5\n  halt\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{}), want)
	expectDump(t, dump(t, prog, ir.DumpOptions{HideUnreachable: true}), "bb0:\n  return 3\n")

	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LowUnreachableCode {
		t.Fatalf("expected unreachable note, got %v", bag.Items())
	}
}

func TestReturnAloneLeavesEmptyContinuation(t *testing.T) {
	tb := newTreeBuilder()
	prog, _ := lower(t, tb.tree(tb.ret(tb.ident("x"))), ir.Options{})

	next := prog.Block(1)
	if next == nil || len(next.Assigns) != 0 || next.Sealed {
		t.Fatalf("unexpected continuation block: %+v", next)
	}
	if next.Term.Kind != ir.TermHalt {
		t.Fatalf("continuation should receive the final halt, got %s", next.Term.Kind)
	}
}

func TestYieldTerminator(t *testing.T) {
	tb := newTreeBuilder()
	prog, _ := lower(t, tb.tree(tb.yield(tb.ident("v"))), ir.Options{})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  yield v\nbb1: ; unreachable\n  halt\n")
}

func TestBreakLowersToBranch(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.expr(tb.assign("x", tb.num(1))),
		tb.brk(),
		tb.expr(tb.assign("y", tb.num(2))),
	)
	prog, bag := lower(t, tree, ir.Options{})

	want := "bb0: ; preds: none\n  x = 1\n  branch bb1\nbb1: ; preds: bb0\n  y = 2\n  halt\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{Preds: true}), want)
	if !prog.Block(0).Sealed {
		t.Fatal("block before break must be sealed")
	}
	if bag.Len() != 0 {
		t.Fatalf("code after break is reachable, got %v", bag.Items())
	}
}

func TestIfElseBuildsFourBlocks(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.ifElse(tb.ident("c"),
			tb.block(tb.expr(tb.assign("x", tb.num(1)))),
			tb.block(tb.expr(tb.assign("x", tb.num(2))))),
		tb.expr(tb.assign("y", tb.ident("x"))),
	)
	prog, _ := lower(t, tree, ir.Options{})

	want := "bb0: ; preds: none\n" +
		"  if c then bb1 else bb2\n" +
		"bb1: ; preds: bb0\n" +
		"  x = 1\n" +
		"  branch bb3\n" +
		"bb2: ; preds: bb0\n" +
		"  x = 2\n" +
		"  branch bb3\n" +
		"bb3: ; preds: bb1, bb2\n" +
		"  y = x\n" +
		"  halt\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{Preds: true}), want)
	if len(prog.Blocks) != 4 {
		t.Fatalf("blocks: got %d, want 4", len(prog.Blocks))
	}
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestIfWithoutElse(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.ifElse(tb.ident("c"), tb.expr(tb.assign("x", tb.num(1))), ast.NoStmtID))
	prog, _ := lower(t, tree, ir.Options{})

	want := "bb0:\n  if c then bb1 else bb2\nbb1:\n  x = 1\n  branch bb3\nbb2:\n  branch bb3\nbb3:\n  halt\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{}), want)
}

func TestTernaryExpressionSharesMerge(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("z", tb.ternary(tb.ident("c"), tb.num(1), tb.num(2)))))
	prog, _ := lower(t, tree, ir.Options{})

	want := "bb0:\n" +
		"  if c then bb1 else bb2\n" +
		"bb1:\n" +
		"  __tmp0 = 1\n" +
		"  branch bb3\n" +
		"bb2:\n" +
		"  __tmp0 = 2\n" +
		"  branch bb3\n" +
		"bb3:\n" +
		"  z = __tmp0\n" +
		"  halt\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{}), want)
	merge := prog.Block(3)
	if !slices.Equal(merge.Preds, []ir.BlockID{1, 2}) {
		t.Fatalf("merge preds: %v", merge.Preds)
	}
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestYieldInArmDiverges(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.ifElse(tb.ident("c"),
		tb.block(tb.yield(tb.num(1))),
		tb.block(tb.expr(tb.assign("x", tb.num(2))))))
	prog, _ := lower(t, tree, ir.Options{})

	want := "bb0:\n" +
		"  if c then bb1 else bb2\n" +
		"bb1:\n" +
		"  yield 1\n" +
		"bb2:\n" +
		"  x = 2\n" +
		"  branch bb3\n" +
		"bb3:\n" +
		"  halt\n" +
		"bb4: ; unreachable\n" +
		"  branch bb3\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{}), want)

	thenBB := prog.Block(1)
	if thenBB.Term.Kind != ir.TermYield {
		t.Fatalf("then arm: got %s", thenBB.Term.Kind)
	}
	if slices.Contains(prog.Block(3).Preds, thenBB.ID) {
		t.Fatal("yielding arm must not flow into the merge block")
	}
	if !slices.Equal(prog.Block(3).Preds, []ir.BlockID{4, 2}) {
		t.Fatalf("merge preds: %v", prog.Block(3).Preds)
	}
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestYieldInBothArms(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.ifElse(tb.ident("cond"),
		tb.block(tb.yield(tb.ident("a"))),
		tb.block(tb.yield(tb.ident("b")))))
	prog, _ := lower(t, tree, ir.Options{})

	want := "bb0: ; preds: none\n" +
		"  if cond then bb1 else bb2\n" +
		"bb1: ; preds: bb0\n" +
		"  yield a\n" +
		"bb2: ; preds: bb0\n" +
		"  yield b\n" +
		"bb3: ; preds: bb4, bb5 ; unreachable\n" +
		"  halt\n" +
		"bb4: ; preds: none ; unreachable\n" +
		"  branch bb3\n" +
		"bb5: ; preds: none ; unreachable\n" +
		"  branch bb3\n"
	expectDump(t, dump(t, prog, ir.DumpOptions{Preds: true}), want)

	for bb, name := range map[ir.BlockID]string{1: "a", 2: "b"} {
		term := prog.Block(bb).Term
		if term.Kind != ir.TermYield || prog.FormatValue(term.Yield.Value) != name {
			t.Fatalf("bb%d: got %s", bb, prog.FormatTerm(&term))
		}
	}
	merge := prog.Block(3).Preds
	if slices.Contains(merge, 1) || slices.Contains(merge, 2) {
		t.Fatalf("yielding arms flow into merge: %v", merge)
	}
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestUnaryMapping(t *testing.T) {
	tests := []struct {
		op   ast.UnaryOp
		want string
	}{
		{ast.UnaryNegate, "x = -a"},
		{ast.UnaryNot, "x = !a"},
		{ast.UnaryInvert, "x = ~a"},
	}
	for _, tt := range tests {
		tb := newTreeBuilder()
		tree := tb.tree(tb.expr(tb.assign("x", tb.unary(tt.op, tb.ident("a")))))
		prog, bag := lower(t, tree, ir.Options{})
		if got := prog.FormatValue(prog.Block(0).Assigns[0]); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.op, got, tt.want)
		}
		if bag.Len() != 0 {
			t.Errorf("%s: unexpected diagnostics", tt.op)
		}
	}
}

func TestUnaryLiteralsFold(t *testing.T) {
	tests := []struct {
		name  string
		build func(tb *treeBuilder) ast.ExprID
		opts  ir.Options
		want  string
		warns int
	}{
		{"negate", func(tb *treeBuilder) ast.ExprID { return tb.unary(ast.UnaryNegate, tb.num(5)) }, ir.Options{}, "x = -5", 0},
		{"not", func(tb *treeBuilder) ast.ExprID { return tb.unary(ast.UnaryNot, tb.lit(value.MakeBool(true))) }, ir.Options{}, "x = false", 0},
		{"invert", func(tb *treeBuilder) ast.ExprID { return tb.unary(ast.UnaryInvert, tb.num(0)) }, ir.Options{}, "x = -1", 0},
		{"feeds binary", func(tb *treeBuilder) ast.ExprID {
			return tb.bin(ast.BinaryAdd, tb.unary(ast.UnaryNegate, tb.num(5)), tb.num(3))
		}, ir.Options{}, "x = -2", 0},
		{"mismatch keeps unary", func(tb *treeBuilder) ast.ExprID {
			return tb.unary(ast.UnaryNegate, tb.lit(value.MakeString("s")))
		}, ir.Options{}, `x = -"s"`, 1},
		{"no fold", func(tb *treeBuilder) ast.ExprID { return tb.unary(ast.UnaryNegate, tb.num(5)) }, ir.Options{NoFold: true}, "x = -5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTreeBuilder()
			prog, bag := lower(t, tb.tree(tb.expr(tb.assign("x", tt.build(tb)))), tt.opts)
			assign := prog.Value(prog.Block(0).Assigns[0])
			if got := prog.FormatValue(prog.Block(0).Assigns[0]); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			folded := prog.Value(assign.Assign.Value).Kind == ir.ValueConst
			if wantFolded := tt.warns == 0 && !tt.opts.NoFold; folded != wantFolded {
				t.Fatalf("folded = %v, want %v", folded, wantFolded)
			}
			if bag.Count(diag.SevWarning) != tt.warns || bag.HasErrors() {
				t.Fatalf("diagnostics: %v", bag.Items())
			}
		})
	}
}

func TestUnaryOperandIsMaterialised(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.unary(ast.UnaryNegate, tb.bin(ast.BinaryAdd, tb.ident("a"), tb.ident("b"))))))
	prog, _ := lower(t, tree, ir.Options{})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  __tmp0 = a + b\n  x = -__tmp0\n  halt\n")
}

func TestUnmappedOperatorsYieldNone(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.expr(tb.assign("x", tb.unary(ast.UnaryPlus, tb.ident("a")))),
		tb.expr(tb.assign("y", tb.bin(ast.BinaryShiftLeft, tb.num(1), tb.num(2)))),
	)
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = NONE\n  y = NONE\n  halt\n")
	if bag.Len() != 2 {
		t.Fatalf("diagnostics: got %d, want 2", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.LowUnsupportedOperator || d.Severity != diag.SevError {
			t.Fatalf("unexpected diagnostic %s", d.Code)
		}
	}
}

func TestAssignmentToNonNameIsReported(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.expr(tb.assignTo(tb.num(1), tb.num(2))),
		tb.expr(tb.bin(ast.BinaryAssign, tb.call("f"), tb.num(3))),
	)
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  __tmp0 = NONE\n  __tmp1 = NONE\n  halt\n")
	if bag.Len() != 2 {
		t.Fatalf("diagnostics: got %d, want 2", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.LowAssignTarget || len(d.Notes) != 1 {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
	}
}

func TestBinaryAssignOperatorAssigns(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.bin(ast.BinaryAssign, tb.ident("x"), tb.bin(ast.BinaryAdd, tb.num(1), tb.num(2)))))
	prog, _ := lower(t, tree, ir.Options{})
	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  x = 3\n  halt\n")
}

func TestMissingNodesAreReported(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(ast.ExprID(999)), ast.StmtID(999))
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  __tmp0 = NONE\n  halt\n")
	if bag.Len() != 2 {
		t.Fatalf("diagnostics: got %d, want 2", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.LowMissingNode {
			t.Fatalf("unexpected code %s", d.Code.ID())
		}
	}
}

func TestEmptyTreeHalts(t *testing.T) {
	tb := newTreeBuilder()
	tree := ast.NewTree(tb.b, 0, ast.NoStmtID, nil)
	prog, bag := lower(t, tree, ir.Options{})

	expectDump(t, dump(t, prog, ir.DumpOptions{}), "bb0:\n  halt\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if err := ir.Validate(prog); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestParseDiagnosticsSkipLowering(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assign("x", tb.num(1))))
	tree.Diags.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.SynExpectSemicolon, Message: "expected ';'"})

	prog, bag := lower(t, tree, ir.Options{})
	if len(prog.Blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(prog.Blocks))
	}
	entry := prog.Block(prog.Entry)
	if entry.Filled() || len(entry.Assigns) != 0 {
		t.Fatalf("entry must stay open and empty: %+v", entry)
	}
	if bag.Len() != 0 {
		t.Fatalf("lowering must not add diagnostics, got %d", bag.Len())
	}
}

func TestNilTreeIsReported(t *testing.T) {
	prog, bag := ir.GenerateFromAST(nil, ir.Options{})
	if len(prog.Blocks) != 1 || !bag.HasErrors() {
		t.Fatalf("got %d blocks, %d diagnostics", len(prog.Blocks), bag.Len())
	}
}

func TestLowererResetsBetweenPasses(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(tb.expr(tb.assignTo(tb.num(1), tb.num(2))))

	l := ir.NewLowerer(ir.Options{})
	first := dump(t, l.GenerateFromAST(tree), ir.DumpOptions{})
	second := dump(t, l.GenerateFromAST(tree), ir.DumpOptions{})
	if first != second {
		t.Fatalf("passes differ:\n%s\n%s", first, second)
	}
	if l.Diagnostics().Len() != 1 {
		t.Fatalf("diagnostics must reset between passes, got %d", l.Diagnostics().Len())
	}
}

func TestLowererTracesBlocks(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	tb := newTreeBuilder()
	tree := tb.tree(tb.ifElse(tb.ident("c"), tb.ret(tb.num(1)), ast.NoStmtID))
	prog, _ := lower(t, tree, ir.Options{Tracer: ring})

	count := 0
	for _, ev := range ring.Snapshot() {
		if ev.Name == "block" && ev.Scope == trace.ScopeNode {
			count++
		}
	}
	if count != len(prog.Blocks) {
		t.Fatalf("traced %d blocks, program has %d", count, len(prog.Blocks))
	}
}

func TestRenderingIsIdempotent(t *testing.T) {
	tb := newTreeBuilder()
	tree := tb.tree(
		tb.ifElse(tb.ident("c"), tb.yield(tb.ident("a")), tb.expr(tb.assign("b", tb.ident("a")))),
		tb.ret(tb.bin(ast.BinaryAdd, tb.ident("a"), tb.ident("b"))),
	)
	prog, _ := lower(t, tree, ir.Options{})

	for i := range prog.Blocks {
		id := ir.BlockID(i) //nolint:gosec // small test program
		if a, b := prog.FormatBlock(id), prog.FormatBlock(id); a != b {
			t.Fatalf("bb%d renders differently:\n%s\n%s", i, a, b)
		}
	}
	first := dump(t, prog, ir.DumpOptions{Preds: true})
	if second := dump(t, prog, ir.DumpOptions{Preds: true}); first != second {
		t.Fatal("dump is not idempotent")
	}
	if strings.Count(first, "bb3:") != 1 {
		t.Fatalf("merge block printed more than once:\n%s", first)
	}
}

func TestFormatBlockOpenAndMissing(t *testing.T) {
	p := ir.NewProgram()
	bb := p.NewBlock(source.Span{})
	if got := p.FormatBlock(bb); got != "bb0:\n  no terminator\n" {
		t.Fatalf("got %q", got)
	}
	if got := p.FormatBlock(7); !strings.Contains(got, "<missing>") {
		t.Fatalf("got %q", got)
	}
}
