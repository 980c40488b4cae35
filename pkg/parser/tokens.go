package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals and names
	TokenNumber      // 1, 1.2, 1.2e-10
	TokenIdent       // att1, sin, myatt
	TokenBracketName // [c], [Earth-R]

	// Grouping and separators
	TokenParenOpen  // (
	TokenParenClose // )
	TokenComma      // ,
	TokenSemicolon  // ;

	// Arithmetic operators
	TokenPlus    // +
	TokenMinus   // -
	TokenMult    // *
	TokenDiv     // /
	TokenMod     // #
	TokenPow     // ^
	TokenBang    // ! (postfix factorial)
	TokenPercent // % (postfix percentage)

	// Binary relations
	TokenEq        // = ==
	TokenNeq       // <> ~= !=
	TokenLess      // <
	TokenLessEq    // <=
	TokenGreater   // >
	TokenGreaterEq // >=

	// Boolean operators
	TokenAnd   // & && /\
	TokenNand  // ~& ~&& ~/\
	TokenOr    // | || \/
	TokenNor   // ~| ~|| ~\/
	TokenXor   // (+)
	TokenImp   // -->
	TokenCimp  // <--
	TokenNimp  // -/>
	TokenCnimp // </-
	TokenEqv   // <->
	TokenNot   // ~ (prefix negation)
)

// Token represents a lexical token in an expression.
type Token struct {
	Type     TokenType
	Value    string  // literal text of the token
	Number   float64 // numeric value, set for TokenNumber
	Position int     // starting byte offset in the input
}

// operatorLexeme pairs an operator spelling with its token type. The lexer
// matches greedily: at each position the longest spelling wins, which
// disambiguates e.g. <= vs <, && vs &, ~&& vs ~&, (+) vs (.
type operatorLexeme struct {
	text string
	tt   TokenType
}

// operators3, operators2 and operators1 hold the operator spellings grouped
// by length, tried in that order.
var operators3 = []operatorLexeme{
	{"-->", TokenImp},
	{"-/>", TokenNimp},
	{"<--", TokenCimp},
	{"</-", TokenCnimp},
	{"<->", TokenEqv},
	{"~&&", TokenNand},
	{"~||", TokenNor},
	{`~/\`, TokenNand},
	{`~\/`, TokenNor},
	{"(+)", TokenXor},
}

var operators2 = []operatorLexeme{
	{"&&", TokenAnd},
	{"||", TokenOr},
	{`/\`, TokenAnd},
	{`\/`, TokenOr},
	{"~&", TokenNand},
	{"~|", TokenNor},
	{"==", TokenEq},
	{"<>", TokenNeq},
	{"~=", TokenNeq},
	{"!=", TokenNeq},
	{"<=", TokenLessEq},
	{">=", TokenGreaterEq},
}

var operators1 = []operatorLexeme{
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenMult},
	{"/", TokenDiv},
	{"#", TokenMod},
	{"^", TokenPow},
	{"!", TokenBang},
	{"%", TokenPercent},
	{"&", TokenAnd},
	{"|", TokenOr},
	{"~", TokenNot},
	{"=", TokenEq},
	{"<", TokenLess},
	{">", TokenGreater},
	{"(", TokenParenOpen},
	{")", TokenParenClose},
	{",", TokenComma},
	{";", TokenSemicolon},
}

// canonicalOp maps an operator token type to the canonical spelling stored
// in AST nodes, so that e.g. && and /\ produce the same operator.
var canonicalOp = map[TokenType]string{
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenMult:      "*",
	TokenDiv:       "/",
	TokenMod:       "#",
	TokenPow:       "^",
	TokenBang:      "!",
	TokenPercent:   "%",
	TokenEq:        "=",
	TokenNeq:       "<>",
	TokenLess:      "<",
	TokenLessEq:    "<=",
	TokenGreater:   ">",
	TokenGreaterEq: ">=",
	TokenAnd:       "&",
	TokenNand:      "~&",
	TokenOr:        "|",
	TokenNor:       "~|",
	TokenXor:       "(+)",
	TokenImp:       "-->",
	TokenCimp:      "<--",
	TokenNimp:      "-/>",
	TokenCnimp:     "</-",
	TokenEqv:       "<->",
	TokenNot:       "~",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenNumber:
		return "(number)"
	case TokenIdent:
		return "(identifier)"
	case TokenBracketName:
		return "(bracketed name)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	default:
		if op, ok := canonicalOp[tt]; ok {
			return op
		}
		return "(unknown)"
	}
}
