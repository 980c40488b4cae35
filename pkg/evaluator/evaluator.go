// Package evaluator implements the expression evaluation engine.
//
// The evaluator receives a parsed abstract syntax tree from the parser and
// computes a float64 result against a per-call variable binding
// environment. Evaluation is strict: every operand of every operator and
// function is evaluated, including both branches of boolean operators
// (numeric truth encoding, true=1, false=0). There is no short-circuiting;
// NaN propagates per IEEE-754 and division by zero yields infinity or NaN,
// never an error.
//
// # Concurrency
//
// The AST is immutable after parsing, so the same Expression may be
// evaluated concurrently from multiple goroutines as long as each call
// uses its own binding map.
//
//	eval := evaluator.New()
//	result, err := eval.Eval(expr, map[string]float64{"att1": 4})
package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/fracpete/mxexpression-go/pkg/symbols"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Evaluator evaluates compiled expressions against variable bindings.
// It is safe for concurrent use.
type Evaluator struct {
	table  *symbols.Table
	logger *slog.Logger
	debug  bool
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Table is the symbol table used to resolve functions and constants.
	// Defaults to the standard table. Hand the same table to the parser
	// so parse-time arity checks agree with evaluation.
	Table *symbols.Table
	// Logger for structured logging.
	Logger *slog.Logger
	// Debug enables per-evaluation debug logging.
	Debug bool
}

// EvalOption configures an Evaluator.
type EvalOption func(*EvalOptions)

// WithTable sets the symbol table.
func WithTable(t *symbols.Table) EvalOption {
	return func(opts *EvalOptions) {
		opts.Table = t
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = l
	}
}

// WithDebug enables debug logging of every evaluation.
func WithDebug(debug bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = debug
	}
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Table == nil {
		options.Table = symbols.NewTable()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Evaluator{
		table:  options.Table,
		logger: options.Logger,
		debug:  options.Debug,
	}
}

// Table returns the symbol table the evaluator resolves against.
func (e *Evaluator) Table() *symbols.Table {
	return e.table
}

// Eval evaluates the expression against the given variable bindings and
// returns the numeric result.
//
// bindings maps variable names to values for this call only; the map is
// not retained and not modified. An identifier that is neither bound nor
// registered in the symbol table fails with an unresolved-name error.
func (e *Evaluator) Eval(expr *types.Expression, bindings map[string]float64) (float64, error) {
	result, err := e.evalNode(expr.AST(), bindings)
	if e.debug {
		e.logger.Debug("evaluated expression",
			"source", expr.Source(), "result", result, "err", err)
	}
	return result, err
}

// EvalNode evaluates a bare AST node. Most callers should use Eval.
func (e *Evaluator) EvalNode(node *types.ASTNode, bindings map[string]float64) (float64, error) {
	return e.evalNode(node, bindings)
}

func (e *Evaluator) evalNode(node *types.ASTNode, env map[string]float64) (float64, error) {
	switch node.Type {
	case types.NodeNumber:
		return node.Value, nil

	case types.NodeVariable:
		return e.resolveVariable(node, env)

	case types.NodeUnary:
		operand, err := e.evalNode(node.Operand, env)
		if err != nil {
			return 0, err
		}
		return e.applyUnary(node, operand)

	case types.NodePostfix:
		operand, err := e.evalNode(node.Operand, env)
		if err != nil {
			return 0, err
		}
		return e.applyPostfix(node, operand)

	case types.NodeBinary:
		// Strict: both operands are always evaluated, boolean operators
		// included. Short-circuiting would change observable behavior for
		// NaN-producing operands.
		left, err := e.evalNode(node.LHS, env)
		if err != nil {
			return 0, err
		}
		right, err := e.evalNode(node.RHS, env)
		if err != nil {
			return 0, err
		}
		return e.applyBinary(node, left, right)

	case types.NodeCall:
		return e.evalCall(node, env)

	case types.NodeCalculus:
		return e.evalCalculus(node, env)

	default:
		return 0, &types.Error{
			Code:     types.ErrUnknownOperator,
			Message:  fmt.Sprintf("unknown node type %q", node.Type),
			Position: node.Position,
		}
	}
}

// resolveVariable looks a name up in the binding environment first, then
// among the symbol table's constants. Bindings shadow constants.
func (e *Evaluator) resolveVariable(node *types.ASTNode, env map[string]float64) (float64, error) {
	if v, ok := env[node.Name]; ok {
		return v, nil
	}
	if entry, ok := e.table.Lookup(node.Name); ok && entry.Category == symbols.Constant {
		return entry.Value, nil
	}
	return 0, &types.Error{
		Code:     types.ErrUnresolvedName,
		Message:  fmt.Sprintf("unresolved name %q", node.Name),
		Position: node.Position,
		Token:    node.Name,
	}
}

// evalCall applies a function from the symbol table to strictly evaluated
// arguments.
func (e *Evaluator) evalCall(node *types.ASTNode, env map[string]float64) (float64, error) {
	entry, ok := e.table.Lookup(node.Name)
	if !ok {
		return 0, &types.Error{
			Code:     types.ErrUnresolvedName,
			Message:  fmt.Sprintf("unresolved name %q", node.Name),
			Position: node.Position,
			Token:    node.Name,
		}
	}

	args := make([]float64, len(node.Args))
	for i, arg := range node.Args {
		v, err := e.evalNode(arg, env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	switch entry.Category {
	case symbols.UnaryFunc:
		if len(args) != 1 {
			return 0, e.arityError(node, entry, len(args))
		}
		return entry.Unary(args[0]), nil
	case symbols.BinaryFunc:
		if len(args) != 2 {
			return 0, e.arityError(node, entry, len(args))
		}
		return entry.Binary(args[0], args[1]), nil
	case symbols.TernaryFunc:
		if len(args) != 3 {
			return 0, e.arityError(node, entry, len(args))
		}
		return entry.Ternary(args[0], args[1], args[2]), nil
	case symbols.VariadicFunc:
		// The parser already rejects empty argument lists; this guards
		// hand-built ASTs.
		if len(args) == 0 {
			return 0, e.arityError(node, entry, 0)
		}
		return entry.Variadic(args), nil
	default:
		return 0, &types.Error{
			Code:     types.ErrBadArguments,
			Message:  fmt.Sprintf("%q (%s) cannot be called as a plain function", node.Name, entry.Category),
			Position: node.Position,
			Token:    node.Name,
		}
	}
}

func (e *Evaluator) arityError(node *types.ASTNode, entry symbols.Entry, got int) error {
	min, max := entry.ArgRange()
	return &types.Error{
		Code:     types.ErrBadArguments,
		Message:  fmt.Sprintf("%s %q called with %d argument(s), expects %d..%d", entry.Category, node.Name, got, min, max),
		Position: node.Position,
		Token:    node.Name,
	}
}
