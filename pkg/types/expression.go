package types

// Expression represents a compiled expression.
//
// An Expression is built once by the parser and may be evaluated any number
// of times against different variable bindings. It is immutable and safe
// for concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the root node of the expression's abstract syntax tree.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns the original source text.
func (e *Expression) String() string {
	return e.source
}
