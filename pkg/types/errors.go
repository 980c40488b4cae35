package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of expression failure.
type ErrorCode string

// Error codes. The leading letter gives the class:
// L = lexical, S = syntax, U = unresolved name, E = evaluation.
const (
	// Lx: lexer errors
	ErrUnexpectedChar   ErrorCode = "L0001"
	ErrBracketNotClosed ErrorCode = "L0002"
	ErrMalformedNumber  ErrorCode = "L0003"

	// Sx: parser/syntax errors
	ErrEmptyExpression ErrorCode = "S0001"
	ErrUnexpectedToken ErrorCode = "S0002"
	ErrExpectedToken   ErrorCode = "S0003"
	ErrArityMismatch   ErrorCode = "S0004"
	ErrNotAFunction    ErrorCode = "S0005"
	ErrBadBoundVar     ErrorCode = "S0006"
	ErrTrailingTokens  ErrorCode = "S0007"

	// Ux: name resolution errors
	ErrUnresolvedName ErrorCode = "U0001"

	// Ex: evaluation errors
	ErrBadArguments    ErrorCode = "E0001"
	ErrUnknownOperator ErrorCode = "E0002"
)

// Error is the structured error value returned for every recoverable
// lexing, parsing or evaluation failure. Errors are values, never panics;
// division by zero and similar IEEE-754 edge cases are not errors at all.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int    // byte offset into the source, -1 when not determinable
	Token    string // offending token or identifier, if any
}

// NewError creates a new expression error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// IsLexError reports whether err is a lexical error.
func IsLexError(err error) bool { return hasClass(err, 'L') }

// IsSyntaxError reports whether err is a syntax error.
func IsSyntaxError(err error) bool { return hasClass(err, 'S') }

// IsUnresolvedName reports whether err is an unresolved-name error.
func IsUnresolvedName(err error) bool { return hasClass(err, 'U') }

// IsEvalError reports whether err is a runtime evaluation error.
func IsEvalError(err error) bool { return hasClass(err, 'E') }

func hasClass(err error, class byte) bool {
	var e *Error
	return errors.As(err, &e) && len(e.Code) > 0 && e.Code[0] == class
}
