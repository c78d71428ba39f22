package ast

import (
	"flexir/internal/diag"
	"flexir/internal/source"
)

// Tree is a parsed program: its arenas, root statement and the parser's diagnostics.
type Tree struct {
	*Builder
	File  source.FileID
	Root  StmtID
	Diags *diag.Bag
}

// NewTree wraps b; a nil diags gets an empty unbounded bag.
func NewTree(b *Builder, file source.FileID, root StmtID, diags *diag.Bag) *Tree {
	if diags == nil {
		diags = diag.NewBag(0)
	}
	return &Tree{Builder: b, File: file, Root: root, Diags: diags}
}

// HasDiagnostics reports whether the parser left any diagnostics behind.
func (t *Tree) HasDiagnostics() bool {
	return t != nil && t.Diags.Len() > 0
}
