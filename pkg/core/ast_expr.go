package core

import "github.com/leapstack-labs/leapplot/pkg/token"

// ---------- Expression Types ----------

// NumberLit represents a numeric literal.
type NumberLit struct {
	Value  float64
	Raw    string // literal as written
	NumPos token.Position
}

func (*NumberLit) exprNode() {}

// Pos implements Node.
func (n *NumberLit) Pos() token.Position { return n.NumPos }

// End implements Node.
func (n *NumberLit) End() token.Position { return advance(n.NumPos, len(n.Raw)) }

// Ident represents a bare identifier: the free variable or a named constant.
type Ident struct {
	Name    string
	NamePos token.Position
}

func (*Ident) exprNode() {}

// Pos implements Node.
func (i *Ident) Pos() token.Position { return i.NamePos }

// End implements Node.
func (i *Ident) End() token.Position { return advance(i.NamePos, len(i.Name)) }

// IsVariable reports whether the identifier names the free variable.
func (i *Ident) IsVariable() bool { return i.Name == Variable }

// UnaryExpr represents a prefix + or - expression.
type UnaryExpr struct {
	Op    token.TokenType // PLUS or MINUS
	OpPos token.Position
	Expr  Expr
}

func (*UnaryExpr) exprNode() {}

// Pos implements Node.
func (u *UnaryExpr) Pos() token.Position { return u.OpPos }

// End implements Node.
func (u *UnaryExpr) End() token.Position { return u.Expr.End() }

// BinaryExpr represents a binary arithmetic expression.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// Pos implements Node.
func (b *BinaryExpr) Pos() token.Position { return b.Left.Pos() }

// End implements Node.
func (b *BinaryExpr) End() token.Position { return b.Right.End() }

// CallExpr represents a call into the function whitelist.
type CallExpr struct {
	Func    string
	NamePos token.Position
	Args    []Expr
	Rparen  token.Position
}

func (*CallExpr) exprNode() {}

// Pos implements Node.
func (c *CallExpr) Pos() token.Position { return c.NamePos }

// End implements Node.
func (c *CallExpr) End() token.Position { return advance(c.Rparen, 1) }

// ParenExpr represents a parenthesized expression.
// The printer drops redundant parentheses; the parser keeps them so error
// positions and spans stay faithful to the canonical string.
type ParenExpr struct {
	Lparen token.Position
	Expr   Expr
	Rparen token.Position
}

func (*ParenExpr) exprNode() {}

// Pos implements Node.
func (p *ParenExpr) Pos() token.Position { return p.Lparen }

// End implements Node.
func (p *ParenExpr) End() token.Position { return advance(p.Rparen, 1) }

func advance(p token.Position, n int) token.Position {
	if !p.IsValid() {
		return p
	}
	return token.Position{Column: p.Column + n, Offset: p.Offset + n}
}

// Unparen strips any number of enclosing ParenExpr nodes.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.Expr
	}
}
