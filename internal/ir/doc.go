// Package ir lowers an AST into an untyped control-flow graph.
//
// A Program owns every Block and Value in two arenas and addresses them by
// BlockID and ValueID. A block holds straight-line assignments and ends in
// exactly one Terminator; predecessor lists are plain ids, so shared merge
// blocks have a single owner and Destroy never frees anything twice.
//
// GenerateFromAST is the entry point:
//
//	prog, diags := ir.GenerateFromAST(tree, ir.Options{})
//	ir.Dump(os.Stdout, prog, ir.DumpOptions{Preds: true})
package ir
