// Package token defines the token types of canonical arithmetic expressions.
//
// A canonical expression is what the LaTeX rewrite pipeline emits: numbers,
// identifiers, calls, parentheses and the operators + - * / **.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // x, sin, pi
	NUMBER // 123, 45.67, .5

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	POW    // **
	COMMA  // ,
	LPAREN // (
	RPAREN // )
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsOperator reports whether t is a binary arithmetic operator.
func (t TokenType) IsOperator() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH, POW:
		return true
	}
	return false
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	POW:    "**",
	COMMA:  ",",
	LPAREN: "(",
	RPAREN: ")",
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER, ILLEGAL:
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}
