package evaluator

import (
	"fmt"
	"math"

	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Numeric truth encoding: false is 0, true is 1, any non-zero non-NaN
// value is truthy. Boolean operators propagate NaN.

func truthy(x float64) bool {
	return x != 0
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// applyBinary applies an infix operator to evaluated operands.
//
// Arithmetic follows IEEE-754 throughout: division by zero yields
// infinity (1/0) or NaN (0/0), overflow yields infinity, NaN propagates.
// These are results, not errors.
func (e *Evaluator) applyBinary(node *types.ASTNode, left, right float64) (float64, error) {
	switch node.Op {
	// arithmetic
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		return left / right, nil
	case "#":
		return math.Mod(left, right), nil
	case "^":
		return math.Pow(left, right), nil

	// relations; comparisons involving NaN are false per IEEE-754,
	// except inequality which is true
	case "=":
		return b2f(left == right), nil
	case "<>":
		return b2f(left != right), nil
	case "<":
		return b2f(left < right), nil
	case "<=":
		return b2f(left <= right), nil
	case ">":
		return b2f(left > right), nil
	case ">=":
		return b2f(left >= right), nil
	}

	// boolean operators: NaN in either operand poisons the result
	if math.IsNaN(left) || math.IsNaN(right) {
		switch node.Op {
		case "&", "~&", "|", "~|", "(+)", "-->", "<--", "-/>", "</-", "<->":
			return math.NaN(), nil
		}
	}
	p, q := truthy(left), truthy(right)
	switch node.Op {
	case "&":
		return b2f(p && q), nil
	case "~&":
		return b2f(!(p && q)), nil
	case "|":
		return b2f(p || q), nil
	case "~|":
		return b2f(!(p || q)), nil
	case "(+)":
		return b2f(p != q), nil
	case "-->":
		return b2f(!p || q), nil
	case "<--":
		return b2f(p || !q), nil
	case "-/>":
		return b2f(p && !q), nil
	case "</-":
		return b2f(!p && q), nil
	case "<->":
		return b2f(p == q), nil
	}

	return 0, &types.Error{
		Code:     types.ErrUnknownOperator,
		Message:  fmt.Sprintf("unsupported binary operator %q", node.Op),
		Position: node.Position,
		Token:    node.Op,
	}
}

// applyUnary applies a prefix operator.
func (e *Evaluator) applyUnary(node *types.ASTNode, operand float64) (float64, error) {
	switch node.Op {
	case "-":
		return -operand, nil
	case "+":
		return operand, nil
	case "~":
		if math.IsNaN(operand) {
			return math.NaN(), nil
		}
		return b2f(!truthy(operand)), nil
	}
	return 0, &types.Error{
		Code:     types.ErrUnknownOperator,
		Message:  fmt.Sprintf("unsupported unary operator %q", node.Op),
		Position: node.Position,
		Token:    node.Op,
	}
}

// applyPostfix applies a postfix operator: ! (factorial) or % (percentage).
func (e *Evaluator) applyPostfix(node *types.ASTNode, operand float64) (float64, error) {
	switch node.Op {
	case "!":
		return factorial(operand), nil
	case "%":
		return operand / 100, nil
	}
	return 0, &types.Error{
		Code:     types.ErrUnknownOperator,
		Message:  fmt.Sprintf("unsupported postfix operator %q", node.Op),
		Position: node.Position,
		Token:    node.Op,
	}
}

// factorial computes n! for non-negative integers; anything else is NaN.
// Values above 170 overflow float64 and yield +Inf.
func factorial(x float64) float64 {
	if math.IsNaN(x) || x < 0 || x != math.Trunc(x) {
		return math.NaN()
	}
	if x > 170 {
		return math.Inf(1)
	}
	result := 1.0
	for i := 2.0; i <= x; i++ {
		result *= i
	}
	return result
}
