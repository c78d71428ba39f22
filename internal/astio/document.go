// Package astio reads and writes AST documents, the hand-off format between an
// external parser and the lowering pass.
//
// A document is a tree of Nodes. Statement and expression nodes share one shape;
// the node's position decides which arena it lands in. Two encodings are
// supported: msgpack for tooling and JSON for fixtures and debugging.
package astio

// SchemaVersion is written into every encoded document.
const SchemaVersion = "1.0.0"

// Document is one parsed source file.
type Document struct {
	Schema      string          `json:"schema" msgpack:"schema"`
	Path        string          `json:"path" msgpack:"path"`
	Source      string          `json:"source,omitempty" msgpack:"source,omitempty"`
	Diagnostics []DocDiagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
	Root        *Node           `json:"root" msgpack:"root"`
}

// DocDiagnostic is a parser diagnostic carried alongside the tree.
type DocDiagnostic struct {
	Severity string `json:"severity" msgpack:"severity"`
	Code     uint16 `json:"code,omitempty" msgpack:"code,omitempty"`
	Message  string `json:"message" msgpack:"message"`
	Start    uint32 `json:"start" msgpack:"start"`
	End      uint32 `json:"end" msgpack:"end"`
}

// Node kinds. Statement kinds appear where a statement is expected and expression
// kinds where an expression is expected; "call" is valid in both positions.
const (
	KindBlock   = "block"
	KindExpr    = "expr"
	KindDecl    = "decl"
	KindCall    = "call"
	KindBreak   = "break"
	KindYield   = "yield"
	KindReturn  = "return"
	KindIf      = "if"
	KindLit     = "lit"
	KindIdent   = "ident"
	KindAssign  = "assign"
	KindUnary   = "unary"
	KindBinary  = "binary"
	KindTernary = "ternary"
)

// Node is a statement or expression.
//
// Children layout per kind:
//
//	block    statements
//	expr     [expr]
//	decl     [init]            Name is the variable
//	call     args              Name is the callee (statement form wraps one call expr)
//	yield    [value]
//	return   [value]
//	if       [cond, then, else]
//	assign   [target, value]
//	unary    [operand]         Op is the spelling
//	binary   [left, right]     Op is the spelling
//	ternary  [cond, then, else]
type Node struct {
	Kind     string      `json:"kind" msgpack:"kind"`
	Start    uint32      `json:"start" msgpack:"start"`
	End      uint32      `json:"end" msgpack:"end"`
	Name     string      `json:"name,omitempty" msgpack:"name,omitempty"`
	Op       string      `json:"op,omitempty" msgpack:"op,omitempty"`
	Lit      *DocLiteral `json:"lit,omitempty" msgpack:"lit,omitempty"`
	Children []*Node     `json:"children,omitempty" msgpack:"children,omitempty"`
}

// DocLiteral is a literal's kind name and source spelling.
type DocLiteral struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Value string `json:"value,omitempty" msgpack:"value,omitempty"`
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}
