package testkit_test

import (
	"strings"
	"testing"

	"flexir/internal/ast"
	"flexir/internal/diag"
	"flexir/internal/source"
	"flexir/internal/testkit"
	"flexir/internal/value"
)

func buildTree(t *testing.T, content string, lit func(id source.FileID) source.Span) (*ast.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.fx", []byte(content))
	b := ast.NewBuilder(ast.Hints{}, nil)
	one := b.Exprs.NewLit(lit(id), value.MakeInt(1))
	ret := b.Stmts.NewReturn(source.Span{File: id, Start: 0, End: 8}, one)
	root := b.Stmts.NewBlock(source.Span{File: id, Start: 0, End: 9}, []ast.StmtID{ret})
	return ast.NewTree(b, id, root, diag.NewBag(0)), fs.Get(id)
}

func TestCheckSpanInvariants(t *testing.T) {
	const content = "return 1\n"
	tests := []struct {
		name    string
		lit     func(id source.FileID) source.Span
		wantErr string
	}{
		{"nested", func(id source.FileID) source.Span { return source.Span{File: id, Start: 7, End: 8} }, ""},
		{"outside parent", func(id source.FileID) source.Span { return source.Span{File: id, Start: 7, End: 9} }, "outside parent"},
		{"inverted", func(id source.FileID) source.Span { return source.Span{File: id, Start: 8, End: 7} }, "ends before"},
		{"wrong file", func(id source.FileID) source.Span { return source.Span{File: id + 1, Start: 7, End: 8} }, "file id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, sf := buildTree(t, content, tt.lit)
			err := testkit.CheckSpanInvariants(tree, sf)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSpanInvariantsNil(t *testing.T) {
	if err := testkit.CheckSpanInvariants(nil, nil); err == nil {
		t.Fatal("expected an error for a nil tree")
	}
}
