package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/fracpete/mxexpression-go/pkg/parser"
	"github.com/fracpete/mxexpression-go/pkg/symbols"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Helper functions

func parseExpr(t *testing.T, input string) *types.ASTNode {
	t.Helper()
	expr, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return expr.AST()
}

func expectSyntaxError(t *testing.T, input string, code types.ErrorCode) {
	t.Helper()
	_, err := parser.Parse(input)
	if err == nil {
		t.Fatalf("Expected error parsing %q but got none", input)
	}
	terr, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("Error parsing %q is %T, want *types.Error", input, err)
	}
	if terr.Code != code {
		t.Errorf("Parsing %q: error code is %s, want %s", input, terr.Code, code)
	}
}

var ignorePositions = cmpopts.IgnoreFields(types.ASTNode{}, "Position")

func TestParsePrecedence(t *testing.T) {
	// The serialized form is fully parenthesized, making grouping visible.
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mul before add", "1+2*3", "(1+(2*3))"},
		{"parens override", "(1+2)*3", "((1+2)*3)"},
		{"left assoc sub", "1-2-3", "((1-2)-3)"},
		{"left assoc div", "8/4/2", "((8/4)/2)"},
		{"pow right assoc", "2^3^2", "(2^(3^2))"},
		{"pow before mul", "2*3^2", "(2*(3^2))"},
		{"unary sign below pow", "-2^2", "(-(2^2))"},
		{"postfix above pow", "2^3!", "(2^(3!))"},
		{"percentage", "50%", "(50%)"},
		{"modulo", "7#3+1", "((7#3)+1)"},
		{"relation below add", "a+1<b", "((a+1)<b)"},
		{"and below relation", "a<b&c>d", "((a<b)&(c>d))"},
		{"or below and", "a&b|c&d", "((a&b)|(c&d))"},
		{"imp below or", "a|b-->c", "((a|b)-->c)"},
		{"eqv lowest", "a&b<->b&a", "((a&b)<->(b&a))"},
		{"negation", "~a&b", "((~a)&b)"},
		{"alias and", `a/\b`, "(a&b)"},
		{"alias or2", "a||b", "(a|b)"},
		{"alias neq", "a~=b", "(a<>b)"},
		{"call", "min(a, b, 3)", "min(a, b, 3)"},
		{"nested call", "sin(cos(x))", "sin(cos(x))"},
		{"calculus", "sum(i, 1, 10, i^2)", "sum(i, 1, 10, (i^2))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseExpr(t, tt.input).String()
			if got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAST(t *testing.T) {
	got := parseExpr(t, "(att1 + att3) / att5")
	want := &types.ASTNode{
		Type: types.NodeBinary,
		Op:   "/",
		LHS: &types.ASTNode{
			Type: types.NodeBinary,
			Op:   "+",
			LHS:  &types.ASTNode{Type: types.NodeVariable, Name: "att1"},
			RHS:  &types.ASTNode{Type: types.NodeVariable, Name: "att3"},
		},
		RHS: &types.ASTNode{Type: types.NodeVariable, Name: "att5"},
	}
	if diff := cmp.Diff(want, got, ignorePositions); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Serializing and re-parsing must reproduce the same structure.
	inputs := []string{
		"(att1 + att3) / att5",
		"2^3^2 - 4!",
		"sum(i, 1, 10, i^2 + sin(i))",
		"if(a > b, a, b) * 100%",
		"~(x = 1) & (y <> 2)",
		"der(x^2, x, 3) + int(x, x, 0, 1)",
		"der-(abs(x), x, 0) - der+(abs(x), x, 0)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := parseExpr(t, input)
			second := parseExpr(t, first.String())
			if diff := cmp.Diff(first, second, ignorePositions); diff != "" {
				t.Errorf("Round-trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestParseArity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  types.ErrorCode
	}{
		// Variadic functions require at least one argument; this is
		// checked at parse time.
		{"variadic empty", "min()", types.ErrArityMismatch},
		{"unary too many", "sin(1, 2)", types.ErrArityMismatch},
		{"unary empty", "sin()", types.ErrArityMismatch},
		{"binary too few", "mod(1)", types.ErrArityMismatch},
		{"ternary too few", "if(1, 2)", types.ErrArityMismatch},
		{"calculus too few", "sum(i, 1, 10)", types.ErrArityMismatch},
		{"calculus too many", "sum(i, 1, 10, i, 1, 1)", types.ErrArityMismatch},
		{"constant called", "pi(1)", types.ErrNotAFunction},
		{"calculus bound not var", "sum(1, 1, 10, 1)", types.ErrBadBoundVar},
		{"function without args", "sin + 1", types.ErrExpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectSyntaxError(t, tt.input, tt.code)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  types.ErrorCode
	}{
		{"empty", "", types.ErrEmptyExpression},
		{"blank", "   ", types.ErrEmptyExpression},
		{"trailing tokens", "1+2 3", types.ErrTrailingTokens},
		{"trailing paren", "1+2)", types.ErrTrailingTokens},
		{"unclosed paren", "(1+2", types.ErrExpectedToken},
		{"dangling operator", "1+", types.ErrUnexpectedToken},
		{"lone operator", "*", types.ErrUnexpectedToken},
		{"semicolon outside calculus", "min(1; 2)", types.ErrUnexpectedToken},
		{"unclosed call", "sin(1", types.ErrExpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectSyntaxError(t, tt.input, tt.code)
		})
	}
}

func TestParseSemicolonInCalculus(t *testing.T) {
	// Semicolons may group repeated argument blocks of calculus operators.
	got := parseExpr(t, "sum(i, 1, 10, i^2; 2)").String()
	want := "sum(i, 1, 10, (i^2), 2)"
	if got != want {
		t.Errorf("Parse result is %q, want %q", got, want)
	}
}

func TestParseUnknownIdentifierDeferred(t *testing.T) {
	// Unknown identifiers and unknown calls parse successfully; resolution
	// happens at evaluation time.
	if _, err := parser.Parse("someatt + 1"); err != nil {
		t.Errorf("Unknown variable should parse, got %v", err)
	}
	if _, err := parser.Parse("mystery(1, 2, 3)"); err != nil {
		t.Errorf("Unknown function should parse, got %v", err)
	}
}

func TestParseWithCustomTable(t *testing.T) {
	table := symbols.NewTable()
	table.Register(symbols.Entry{
		Name:     "double",
		Category: symbols.UnaryFunc,
		Unary:    func(x float64) float64 { return 2 * x },
	})

	if _, err := parser.Compile("double(21)", parser.WithTable(table)); err != nil {
		t.Errorf("Custom function should parse, got %v", err)
	}
	if _, err := parser.Compile("double(1, 2)", parser.WithTable(table)); err == nil {
		t.Error("Expected arity error for double(1, 2)")
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := ""
	for i := 0; i < 200; i++ {
		deep += "("
	}
	deep += "1"
	for i := 0; i < 200; i++ {
		deep += ")"
	}
	if _, err := parser.Parse(deep); err == nil {
		t.Error("Expected depth limit error for deeply nested expression")
	}
}
