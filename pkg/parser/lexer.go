package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fracpete/mxexpression-go/pkg/types"
)

const eof = -1

// Lexer converts an expression string into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique: a cursor over the input with accept/backup helpers, emitting
// one token per call to Next.
type Lexer struct {
	input   string // input string being scanned
	length  int    // length of input string
	start   int    // start position of current token
	current int    // current position in input
	width   int    // width of last rune read
	err     error  // first error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input. When the end of the input is
// reached, Next returns TokenEOF for all subsequent calls.
//
// Operators are matched greedily: at each position the longest operator
// spelling wins, so "<=" is never read as "<" "=" and "~&&" is never read
// as "~&" "&".
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.peekRune()
	if ch == eof {
		return l.eof()
	}

	// Multi-character operators, longest spelling first
	for _, group := range [][]operatorLexeme{operators3, operators2, operators1} {
		for _, op := range group {
			if strings.HasPrefix(l.input[l.current:], op.text) {
				l.current += len(op.text)
				return l.newToken(op.tt)
			}
		}
	}

	// Number literals
	if isDigit(ch) {
		return l.scanNumber()
	}

	// Bracket-delimited names: [c], [Earth-R], ...
	if ch == '[' {
		return l.scanBracketName()
	}

	// Identifiers
	if isIdentStart(ch) {
		return l.scanIdent()
	}

	l.nextRune()
	return l.error(types.ErrUnexpectedChar, "unrecognized character "+strconv.QuoteRune(ch))
}

// Err returns the first error encountered during lexing, if any.
func (l *Lexer) Err() error {
	return l.err
}

// Tokenize scans the entire source string and returns all tokens including
// the trailing TokenEOF, or the first lexical error encountered.
func Tokenize(source string) ([]Token, error) {
	l := NewLexer(source)
	var tokens []Token
	for {
		t := l.Next()
		if t.Type == TokenError {
			return nil, l.Err()
		}
		tokens = append(tokens, t)
		if t.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// scanNumber reads a number literal from the current position.
// Supports integers, decimals, and scientific notation:
// [0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	if l.acceptRune('.') {
		if !l.acceptAll(isDigit) {
			return l.error(types.ErrMalformedNumber, "digit expected after decimal point")
		}
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.error(types.ErrMalformedNumber, "digit expected in exponent")
		}
	}

	t := l.newToken(TokenNumber)
	v, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return l.error(types.ErrMalformedNumber, "malformed number "+strconv.Quote(t.Value))
	}
	t.Number = v
	return t
}

// scanBracketName reads a bracket-delimited name from the current position.
// The brackets are part of the name: "[Earth-R]" is a single identifier.
func (l *Lexer) scanBracketName() Token {
	l.nextRune() // consume '['
	for {
		switch l.nextRune() {
		case ']':
			return l.newToken(TokenBracketName)
		case eof, '\n':
			return l.error(types.ErrBracketNotClosed, "unterminated bracketed name")
		}
	}
}

// scanIdent reads an identifier: a letter or underscore followed by
// letters, digits and underscores. The one-sided derivative operators
// der- and der+ carry the sign in their name; the sign is taken as part
// of the identifier when an argument list follows, so "der-(f, x)" is a
// call to der- while "der - x" stays a subtraction.
func (l *Lexer) scanIdent() Token {
	l.accept(isIdentStart)
	l.acceptAll(isIdentPart)
	if l.input[l.start:l.current] == "der" && l.current+1 < l.length {
		sign := l.input[l.current]
		if (sign == '-' || sign == '+') && l.input[l.current+1] == '(' {
			l.current++
		}
	}
	return l.newToken(TokenIdent)
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekRune() rune {
	r := l.nextRune()
	l.backup()
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
