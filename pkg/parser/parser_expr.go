package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/token"
)

// Precedence levels, lowest first.
const (
	PrecedenceNone           = 0
	PrecedenceAdditive       = 1 // + -
	PrecedenceMultiplicative = 2 // * /
	PrecedenceUnary          = 3 // prefix + -
	PrecedencePower          = 4 // ** (right-associative)
)

// Precedence returns the binding power of t as an infix operator.
func Precedence(t token.TokenType) int {
	switch t {
	case token.PLUS, token.MINUS:
		return PrecedenceAdditive
	case token.STAR, token.SLASH:
		return PrecedenceMultiplicative
	case token.POW:
		return PrecedencePower
	default:
		return PrecedenceNone
	}
}

// parseExpressionWithPrecedence implements precedence climbing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	// Parse infix operators while their precedence is >= minPrecedence
	for {
		prec := Precedence(p.token.Type)
		if prec == PrecedenceNone || prec < minPrecedence {
			break
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil {
			return nil
		}
	}

	return left
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() core.Expr {
	switch p.token.Type {
	case token.MINUS, token.PLUS:
		op := p.token
		p.nextToken()
		// Unary binds looser than **, so -x**2 is -(x**2).
		expr := p.parseExpressionWithPrecedence(PrecedenceUnary)
		if expr == nil {
			return nil
		}
		return &core.UnaryExpr{Op: op.Type, OpPos: op.Pos, Expr: expr}
	default:
		return p.parsePrimary()
	}
}

// parseInfixExpr parses the operator at the current token and its right operand.
func (p *Parser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	op := p.token.Type
	p.nextToken()

	next := prec + 1
	if op == token.POW {
		// Right-associative, and the exponent may carry a sign: 2**-x.
		next = PrecedenceUnary
	}

	right := p.parseExpressionWithPrecedence(next)
	if right == nil {
		return nil
	}
	return &core.BinaryExpr{Left: left, Op: op, Right: right}
}

// parsePrimary parses numbers, identifiers, calls and parenthesized expressions.
func (p *Parser) parsePrimary() core.Expr {
	switch p.token.Type {
	case token.NUMBER:
		return p.parseNumber()

	case token.IDENT:
		if p.checkPeek(token.LPAREN) {
			return p.parseCall()
		}
		tok := p.token
		p.nextToken()
		return &core.Ident{Name: tok.Literal, NamePos: tok.Pos}

	case token.LPAREN:
		lparen := p.token.Pos
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(PrecedenceAdditive)
		if expr == nil {
			return nil
		}
		rparen := p.token.Pos
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &core.ParenExpr{Lparen: lparen, Expr: expr, Rparen: rparen}

	case token.ILLEGAL:
		p.addError(fmt.Sprintf(ErrIllegalChar, p.token.Literal))
		return nil

	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "expression"))
		return nil
	}
}

// parseCall parses name(arg, ...). The current token is the name.
func (p *Parser) parseCall() core.Expr {
	call := &core.CallExpr{Func: p.token.Literal, NamePos: p.token.Pos}
	p.nextToken() // name
	p.nextToken() // (

	if !p.check(token.RPAREN) {
		for {
			arg := p.parseExpressionWithPrecedence(PrecedenceAdditive)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
			if !p.check(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	call.Rparen = p.token.Pos
	if !p.expect(token.RPAREN) {
		return nil
	}
	return call
}
