// Package types defines the core type system of the expression engine.
//
// This package contains type definitions for:
//   - Expression: compiled expressions (parse once, evaluate many)
//   - ASTNode: abstract syntax tree nodes
//   - Error types: structured errors with codes and source offsets
package types

import (
	"strconv"
	"strings"
)

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	NodeNumber   NodeType = "number"   // numeric literal
	NodeVariable NodeType = "variable" // identifier resolved at evaluation time
	NodeUnary    NodeType = "unary"    // prefix operator: -, +, ~
	NodePostfix  NodeType = "postfix"  // postfix operator: !, %
	NodeBinary   NodeType = "binary"   // infix operator: +, -, *, /, #, ^, relations, boolean
	NodeCall     NodeType = "call"     // function call: f(a, b, ...)
	NodeCalculus NodeType = "calculus" // iterated/numeric operator: sum, int, der, solve, ...
)

// ASTNode represents a node in the abstract syntax tree.
//
// Each node exclusively owns its children; trees contain no sharing and no
// cycles and are read-only after parsing, which makes concurrent evaluation
// of the same tree against independent bindings safe.
type ASTNode struct {
	Type     NodeType
	Position int // byte offset of the node's first token in the source

	Value float64 // NodeNumber
	Name  string  // NodeVariable, NodeCall, NodeCalculus: identifier
	Op    string  // NodeUnary, NodePostfix, NodeBinary: operator lexeme

	Operand *ASTNode // NodeUnary, NodePostfix
	LHS     *ASTNode // NodeBinary
	RHS     *ASTNode // NodeBinary

	// Args holds call/calculus arguments in source order. For calculus
	// operators the bound-variable argument stays in its positional slot
	// (as a NodeVariable) so the tree serializes back to valid source.
	Args []*ASTNode

	// BoundVar is the bound-variable name of a calculus operator
	// (e.g. "i" in sum(i, 1, 10, i^2)).
	BoundVar string
}

// String renders the node back to parseable source. Binary and unary nodes
// are fully parenthesized, so the output re-parses to a structurally
// equivalent tree.
func (n *ASTNode) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *ASTNode) write(sb *strings.Builder) {
	switch n.Type {
	case NodeNumber:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case NodeVariable:
		sb.WriteString(n.Name)
	case NodeUnary:
		sb.WriteByte('(')
		sb.WriteString(n.Op)
		n.Operand.write(sb)
		sb.WriteByte(')')
	case NodePostfix:
		sb.WriteByte('(')
		n.Operand.write(sb)
		sb.WriteString(n.Op)
		sb.WriteByte(')')
	case NodeBinary:
		sb.WriteByte('(')
		n.LHS.write(sb)
		sb.WriteString(n.Op)
		n.RHS.write(sb)
		sb.WriteByte(')')
	case NodeCall, NodeCalculus:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			arg.write(sb)
		}
		sb.WriteByte(')')
	}
}
