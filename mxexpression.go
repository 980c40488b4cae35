// Package mxexpression applies mathematical expressions to dataset rows.
//
// The package has two layers. The core engine parses an expression string
// once into an immutable AST and evaluates it any number of times against
// per-row variable bindings:
//
//	expr, err := mxexpression.Compile("(att1 + att3) / att5")
//	eval := evaluator.New()
//	result, _ := eval.Eval(expr, map[string]float64{"att1": 4, "att3": 6, "att5": 5})
//
// The host layer maps dataset attributes to expression variables and
// exposes the result either as a transformed attribute ([Filter]) or as a
// per-row prediction ([Classifier]). Attribute values are accessible as
// 'attX' (X being the 1-based attribute index) or, with the derived-name
// policy, as the attribute name lower-cased with all non-alphanumeric
// characters removed.
//
// For the expression grammar and the builtin vocabulary see
// github.com/fracpete/mxexpression-go/pkg/parser and
// github.com/fracpete/mxexpression-go/pkg/symbols.
package mxexpression

import (
	"fmt"

	"github.com/fracpete/mxexpression-go/pkg/evaluator"
	"github.com/fracpete/mxexpression-go/pkg/parser"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Version returns the current version of the package.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles an expression for repeated evaluation.
//
// The compiled expression can be evaluated any number of times against
// different bindings and is safe for concurrent use.
func Compile(source string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(source, opts...)
}

// MustCompile is like Compile but panics if the expression cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(source string) *types.Expression {
	expr, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("mxexpression: Compile(%q): %v", source, err))
	}
	return expr
}

// Eval is a convenience function that compiles and evaluates an expression
// in a single call.
//
// For repeated evaluations of the same expression, use Compile and an
// [evaluator.Evaluator] instead.
func Eval(source string, bindings map[string]float64) (float64, error) {
	expr, err := Compile(source)
	if err != nil {
		return 0, err
	}
	return evaluator.New().Eval(expr, bindings)
}
