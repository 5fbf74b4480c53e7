package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sexpr renders an AST fully parenthesised so that grouping is explicit.
func sexpr(e core.Expr) string {
	switch n := e.(type) {
	case *core.NumberLit:
		return n.Raw
	case *core.Ident:
		return n.Name
	case *core.UnaryExpr:
		return fmt.Sprintf("(%s %s)", n.Op, sexpr(n.Expr))
	case *core.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", n.Op, sexpr(n.Left), sexpr(n.Right))
	case *core.CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = sexpr(a)
		}
		return fmt.Sprintf("%s[%s]", n.Func, strings.Join(args, " "))
	case *core.ParenExpr:
		return sexpr(n.Expr)
	}
	return "?"
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"2.5", "2.5"},
		{"1+2*3", "(+ 1 (* 2 3))"},
		{"1-2-3", "(- (- 1 2) 3)"},
		{"8/4/2", "(/ (/ 8 4) 2)"},
		{"2**3**2", "(** 2 (** 3 2))"},
		{"-x**2", "(- (** x 2))"},
		{"-x*2", "(* (- x) 2)"},
		{"2**-x", "(** 2 (- x))"},
		{"2**3*4", "(* (** 2 3) 4)"},
		{"x*-y", "(* x (- y))"},
		{"--x", "(- (- x))"},
		{"+x", "(+ x)"},
		{"(1+2)*3", "(* (+ 1 2) 3)"},
		{"sin(x)", "sin[x]"},
		{"2*sin(x)+x**2", "(+ (* 2 sin[x]) (** x 2))"},
		{"((1)/(x))", "(/ 1 x)"},
		{"(1/cos(x))", "(/ 1 cos[x])"},
		{"exp(-x**2)", "exp[(- (** x 2))]"},
		{"f(x, 1)", "f[x 1]"},
		{"f()", "f[]"},
		{" x + 1 ", "(+ x 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sexpr(expr))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{"", "empty expression"},
		{"x +", "end of input"},
		{"(x", "expected )"},
		{"x)", "after end of expression"},
		{"2x", "after end of expression"},
		{"x^2", "illegal character"},
		{"sin(x", "expected )"},
		{"*x", "expected expression"},
		{"f(x,)", "expected expression"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			require.Error(t, err)
			var pe *parser.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Error(), tt.wantMsg)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := parser.Parse("1 + ^")
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 5, pe.Pos.Column)
	assert.Contains(t, pe.Error(), "column 5")
}

func TestParse_Spans(t *testing.T) {
	expr, err := parser.Parse("sin(x)+10")
	require.NoError(t, err)
	assert.Equal(t, 1, expr.Pos().Column)
	assert.Equal(t, 10, expr.End().Column)

	bin := expr.(*core.BinaryExpr)
	assert.Equal(t, 7, bin.Left.End().Column)
}

func TestPrecedence(t *testing.T) {
	toks := parser.Tokenize("+ * ** ,")
	assert.Equal(t, parser.PrecedenceAdditive, parser.Precedence(toks[0].Type))
	assert.Equal(t, parser.PrecedenceMultiplicative, parser.Precedence(toks[1].Type))
	assert.Equal(t, parser.PrecedencePower, parser.Precedence(toks[2].Type))
	assert.Equal(t, parser.PrecedenceNone, parser.Precedence(toks[3].Type))
}
