package parser

import (
	"fmt"

	"github.com/fracpete/mxexpression-go/pkg/symbols"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Parser implements a recursive descent parser with Pratt-style operator
// precedence handling.
type Parser struct {
	lexer   *Lexer
	current Token
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		Table:    defaultTable,
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the compiled Expression.
// Trailing tokens after a complete expression are an error.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Err()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrEmptyExpression, "empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrTrailingTokens,
			fmt.Sprintf("unexpected token %q after expression", p.current.Value))
	}

	return types.NewExpression(node, p.lexer.input), nil
}

// Operator precedence table (binding power), lowest to highest:
// implication family, disjunction, conjunction, (prefix negation),
// relations, additive, multiplicative, (unary sign), exponentiation,
// postfix factorial/percentage. Higher values bind more tightly.
var precedence = map[TokenType]int{
	TokenImp:   10,
	TokenCimp:  10,
	TokenNimp:  10,
	TokenCnimp: 10,
	TokenEqv:   10,

	TokenOr:  20,
	TokenNor: 20,
	TokenXor: 20,

	TokenAnd:  30,
	TokenNand: 30,

	TokenEq:        40,
	TokenNeq:       40,
	TokenLess:      40,
	TokenLessEq:    40,
	TokenGreater:   40,
	TokenGreaterEq: 40,

	TokenPlus:  50,
	TokenMinus: 50,

	TokenMult: 60,
	TokenDiv:  60,
	TokenMod:  60,

	TokenPow: 80, // right-associative

	TokenBang:    90,
	TokenPercent: 90,
}

// Binding powers of prefix operators. Logical negation binds between
// conjunction and the relations; unary sign binds between multiplicative
// and exponentiation.
const (
	notBindingPower  = 35
	signBindingPower = 70
)

func (p *Parser) getPrecedence(tt TokenType) int {
	return precedence[tt]
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks that the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(types.ErrExpectedToken,
			fmt.Sprintf("expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence of operators that may
// be consumed).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrUnexpectedToken, "expression nested too deeply")
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Err()
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for rbp < p.getPrecedence(p.current.Type) {
		if p.current.Type == TokenError {
			return nil, p.lexer.Err()
		}
		switch p.current.Type {
		case TokenBang, TokenPercent:
			left = &types.ASTNode{
				Type:     types.NodePostfix,
				Position: p.current.Position,
				Op:       canonicalOp[p.current.Type],
				Operand:  left,
			}
			p.advance()
		default:
			left, err = p.parseInfix(left)
			if err != nil {
				return nil, err
			}
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression: literals, variables, unary
// operators, parenthesized groups and function calls.
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenNumber:
		p.advance()
		return &types.ASTNode{
			Type:     types.NodeNumber,
			Position: token.Position,
			Value:    token.Number,
		}, nil

	case TokenIdent:
		p.advance()
		if p.current.Type == TokenParenOpen {
			return p.parseCall(token)
		}
		// A known function name without an argument list is malformed,
		// not a variable reference.
		if entry, ok := p.opts.Table.Lookup(token.Value); ok && entry.Category != symbols.Constant {
			return nil, &types.Error{
				Code:     types.ErrExpectedToken,
				Message:  fmt.Sprintf("%s %q requires an argument list", entry.Category, token.Value),
				Position: token.Position,
				Token:    token.Value,
			}
		}
		return &types.ASTNode{
			Type:     types.NodeVariable,
			Position: token.Position,
			Name:     token.Value,
		}, nil

	case TokenBracketName:
		p.advance()
		return &types.ASTNode{
			Type:     types.NodeVariable,
			Position: token.Position,
			Name:     token.Value,
		}, nil

	case TokenMinus, TokenPlus:
		p.advance()
		operand, err := p.parseExpression(signBindingPower)
		if err != nil {
			return nil, err
		}
		return &types.ASTNode{
			Type:     types.NodeUnary,
			Position: token.Position,
			Op:       canonicalOp[token.Type],
			Operand:  operand,
		}, nil

	case TokenNot:
		p.advance()
		operand, err := p.parseExpression(notBindingPower)
		if err != nil {
			return nil, err
		}
		return &types.ASTNode{
			Type:     types.NodeUnary,
			Position: token.Position,
			Op:       "~",
			Operand:  operand,
		}, nil

	case TokenParenOpen:
		p.advance()
		node, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return node, nil

	case TokenEOF:
		return nil, p.error(types.ErrUnexpectedToken, "unexpected end of expression")

	case TokenError:
		return nil, p.lexer.Err()

	default:
		return nil, p.error(types.ErrUnexpectedToken,
			fmt.Sprintf("unexpected token %q", token.Value))
	}
}

// parseInfix parses a binary operator expression with left operand
// already parsed.
func (p *Parser) parseInfix(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current
	prec := p.getPrecedence(token.Type)
	p.advance()

	// Exponentiation is right-associative: parse the right operand with a
	// binding power one below its own, so a^b^c groups as a^(b^c).
	rbp := prec
	if token.Type == TokenPow {
		rbp = prec - 1
	}

	right, err := p.parseExpression(rbp)
	if err != nil {
		return nil, err
	}

	return &types.ASTNode{
		Type:     types.NodeBinary,
		Position: token.Position,
		Op:       canonicalOp[token.Type],
		LHS:      left,
		RHS:      right,
	}, nil
}

// parseCall parses a function call or calculus operator invocation.
// The name token has been consumed; the current token is '('.
func (p *Parser) parseCall(name Token) (*types.ASTNode, error) {
	entry, known := p.opts.Table.Lookup(name.Value)
	if known && entry.Category == symbols.Constant {
		return nil, &types.Error{
			Code:     types.ErrNotAFunction,
			Message:  fmt.Sprintf("%q is a constant, not a function", name.Value),
			Position: name.Position,
			Token:    name.Value,
		}
	}
	isCalculus := known && entry.Category == symbols.CalculusOp

	p.advance() // consume '('

	var args []*types.ASTNode
	if p.current.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.current.Type == TokenComma {
				p.advance()
				continue
			}
			// Semicolons group repeated argument blocks inside calculus
			// operators only.
			if p.current.Type == TokenSemicolon {
				if !isCalculus {
					return nil, p.error(types.ErrUnexpectedToken,
						"';' separator is only valid in calculus operator arguments")
				}
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	if known {
		if err := p.checkArity(name, entry, args); err != nil {
			return nil, err
		}
	}

	if isCalculus {
		bound := args[entry.BoundArg]
		if bound.Type != types.NodeVariable {
			return nil, &types.Error{
				Code:     types.ErrBadBoundVar,
				Message:  fmt.Sprintf("argument %d of %q must be a variable name", entry.BoundArg+1, name.Value),
				Position: bound.Position,
				Token:    name.Value,
			}
		}
		return &types.ASTNode{
			Type:     types.NodeCalculus,
			Position: name.Position,
			Name:     name.Value,
			Args:     args,
			BoundVar: bound.Name,
		}, nil
	}

	return &types.ASTNode{
		Type:     types.NodeCall,
		Position: name.Position,
		Name:     name.Value,
		Args:     args,
	}, nil
}

// checkArity validates the argument count of a call against the symbol
// table entry. Fixed-arity functions are checked exactly; variadic
// functions require at least one argument.
func (p *Parser) checkArity(name Token, entry symbols.Entry, args []*types.ASTNode) error {
	min, max := entry.ArgRange()
	n := len(args)
	if n < min || (max >= 0 && n > max) {
		var want string
		switch {
		case min == max:
			want = fmt.Sprintf("%d argument(s)", min)
		case max < 0:
			want = fmt.Sprintf("at least %d argument(s)", min)
		default:
			want = fmt.Sprintf("%d to %d arguments", min, max)
		}
		return &types.Error{
			Code:     types.ErrArityMismatch,
			Message:  fmt.Sprintf("%s %q expects %s, got %d", entry.Category, name.Value, want, n),
			Position: name.Position,
			Token:    name.Value,
		}
	}
	return nil
}
