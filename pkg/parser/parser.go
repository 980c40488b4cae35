// Package parser implements the expression lexer and parser.
//
// The parser is a hand-written recursive descent parser using Pratt's
// "Top Down Operator Precedence" technique. It produces an immutable AST
// ([types.ASTNode]) wrapped in a [types.Expression] that can be evaluated
// any number of times.
//
// Arity of fixed-arity functions is validated at parse time against the
// symbol table; variadic functions are checked for at least one argument.
// Unknown identifiers parse successfully and surface as unresolved-name
// errors at evaluation time.
package parser

import (
	"github.com/fracpete/mxexpression-go/pkg/symbols"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// defaultTable is the shared standard symbol table used when no explicit
// table is supplied. It is built once and only read afterwards.
var defaultTable = symbols.NewTable()

// Parse parses an expression against the standard symbol table.
//
// Example:
//
//	expr, err := parser.Parse("(att1 + att3) / att5")
//	if err != nil {
//	    var perr *types.Error
//	    errors.As(err, &perr) // perr.Position, perr.Code
//	}
func Parse(source string) (*types.Expression, error) {
	return Compile(source)
}

// Compile parses an expression with the supplied options and returns the
// compiled Expression.
func Compile(source string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// Table is the symbol table consulted for arity checking.
	// Defaults to the standard table.
	Table *symbols.Table
	// MaxDepth limits expression nesting to prevent stack exhaustion.
	MaxDepth int
}

// WithTable sets the symbol table used for parse-time arity checks.
// The same table should be handed to the evaluator.
func WithTable(t *symbols.Table) CompileOption {
	return func(opts *CompileOptions) {
		opts.Table = t
	}
}

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
