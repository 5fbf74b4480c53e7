// Package parser parses canonical arithmetic expressions into a core.Expr AST.
//
// # Usage
//
//	expr, err := parser.Parse("2*sin(x)+x**2")
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser implements precedence climbing over this grammar:
//
//	expr    → term (("+" | "-") term)*
//	term    → unary (("*" | "/") unary)*
//	unary   → ("+" | "-") unary | power
//	power   → primary ["**" unary]          (right-associative)
//	primary → NUMBER | IDENT | IDENT "(" [expr ("," expr)*] ")" | "(" expr ")"
//
// Names are not resolved here; see package validate.
package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/token"
)

// Parser parses a canonical expression into an AST.
type Parser struct {
	lexer  *Lexer
	token  token.Token // current token
	peek   token.Token // lookahead token
	errors []error
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses input and returns the AST. Only the first error is returned.
func Parse(input string) (core.Expr, error) {
	p := NewParser(input)
	expr := p.ParseExpression()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return expr, nil
}

// ParseExpression parses a full expression and requires EOF afterwards.
func (p *Parser) ParseExpression() core.Expr {
	if p.check(token.EOF) {
		p.addError(ErrEmptyExpression)
		return nil
	}
	expr := p.parseExpressionWithPrecedence(PrecedenceAdditive)
	switch {
	case expr == nil || p.check(token.EOF):
	case p.check(token.ILLEGAL):
		p.addError(fmt.Sprintf(ErrIllegalChar, p.token.Literal))
	default:
		p.addError(fmt.Sprintf(ErrTrailingInput, describe(p.token)))
	}
	return expr
}

// Errors returns all errors collected while parsing.
func (p *Parser) Errors() []error {
	return p.errors
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// addError records an error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return fmt.Sprintf("character %q", tok.Literal)
	case token.IDENT, token.NUMBER:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}

// ---------- Literals ----------

func (p *Parser) parseNumber() core.Expr {
	tok := p.token
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.addError(fmt.Sprintf(ErrInvalidNumber, tok.Literal))
		return nil
	}
	p.nextToken()
	return &core.NumberLit{Value: v, Raw: tok.Literal, NumPos: tok.Pos}
}
