package format

import (
	"strconv"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/parser"
	"github.com/leapstack-labs/leapplot/pkg/token"
)

const precedenceAtom = parser.PrecedencePower + 1

func precedenceOf(e core.Expr) int {
	switch n := core.Unparen(e).(type) {
	case *core.BinaryExpr:
		return parser.Precedence(n.Op)
	case *core.UnaryExpr:
		return parser.PrecedenceUnary
	default:
		return precedenceAtom
	}
}

func (p *Printer) formatExpr(e core.Expr) {
	switch n := core.Unparen(e).(type) {
	case *core.NumberLit:
		p.write(numberText(n))
	case *core.Ident:
		p.write(n.Name)
	case *core.CallExpr:
		p.write(n.Func)
		p.writeByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				p.writeByte(',')
			}
			p.formatExpr(arg)
		}
		p.writeByte(')')
	case *core.UnaryExpr:
		p.write(n.Op.String())
		_, nested := core.Unparen(n.Expr).(*core.UnaryExpr)
		p.formatOperand(n.Expr, nested || precedenceOf(n.Expr) < parser.PrecedenceUnary)
	case *core.BinaryExpr:
		p.formatBinary(n)
	}
}

func (p *Printer) formatBinary(b *core.BinaryExpr) {
	prec := parser.Precedence(b.Op)
	left, right := precedenceOf(b.Left), precedenceOf(b.Right)

	var leftParens, rightParens bool
	if b.Op == token.POW {
		// Right-associative: (a**b)**c keeps its parentheses, a**-b does not need any.
		leftParens = left <= prec
		rightParens = right < parser.PrecedenceUnary
	} else {
		leftParens = left < prec
		rightParens = right <= prec
		if _, ok := core.Unparen(b.Right).(*core.UnaryExpr); ok && prec == parser.PrecedenceAdditive {
			rightParens = true // x-(-y), never x--y
		}
	}

	p.formatOperand(b.Left, leftParens)
	p.write(b.Op.String())
	p.formatOperand(b.Right, rightParens)
}

func (p *Printer) formatOperand(e core.Expr, parens bool) {
	if parens {
		p.writeByte('(')
	}
	p.formatExpr(e)
	if parens {
		p.writeByte(')')
	}
}

func numberText(n *core.NumberLit) string {
	if n.Raw != "" {
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (p *Printer) formatTree(e core.Expr) {
	switch n := e.(type) {
	case *core.NumberLit:
		p.write("Number " + numberText(n))
		p.writeln()
	case *core.Ident:
		p.write("Ident " + n.Name)
		p.writeln()
	case *core.UnaryExpr:
		p.write("Unary " + n.Op.String())
		p.writeln()
		p.children(n.Expr)
	case *core.BinaryExpr:
		p.write("Binary " + n.Op.String())
		p.writeln()
		p.children(n.Left, n.Right)
	case *core.CallExpr:
		p.write("Call " + n.Func)
		p.writeln()
		p.children(n.Args...)
	case *core.ParenExpr:
		p.write("Paren")
		p.writeln()
		p.children(n.Expr)
	}
}

func (p *Printer) children(es ...core.Expr) {
	p.indent()
	for _, c := range es {
		p.formatTree(c)
	}
	p.dedent()
}
