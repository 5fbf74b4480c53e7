package format_test

import (
	"testing"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/format"
	"github.com/leapstack-labs/leapplot/pkg/parser"
	"github.com/leapstack-labs/leapplot/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"((1)/(x))", "1/x"},
		{"(1/cos(x))", "1/cos(x)"},
		{"2*(x+1)", "2*(x+1)"},
		{"(2*x)+1", "2*x+1"},
		{"1-(2-3)", "1-(2-3)"},
		{"(1-2)-3", "1-2-3"},
		{"1/(2*3)", "1/(2*3)"},
		{"(x**2)**3", "(x**2)**3"},
		{"x**(2**3)", "x**2**3"},
		{"(-x)**2", "(-x)**2"},
		{"-(x**2)", "-x**2"},
		{"-(x+1)", "-(x+1)"},
		{"2**(-x)", "2**-x"},
		{"x-(-y)", "x-(-y)"},
		{"x*(-y)", "x*-y"},
		{"-(-x)", "-(-x)"},
		{"((x))**(1/(3))", "x**(1/3)"},
		{"f(x, (1))", "f(x,1)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			require.NoError(t, err)
			got := format.Expr(expr)
			assert.Equal(t, tt.want, got)

			// The printed form must parse back to the same printed form.
			again, err := parser.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, got, format.Expr(again))
		})
	}
}

func TestExpr_SyntheticNumber(t *testing.T) {
	e := &core.BinaryExpr{
		Left:  &core.NumberLit{Value: 0.25},
		Op:    token.STAR,
		Right: &core.Ident{Name: "x"},
	}
	assert.Equal(t, "0.25*x", format.Expr(e))
}

func TestTree(t *testing.T) {
	expr, err := parser.Parse("2*sin(x)")
	require.NoError(t, err)

	want := "Binary *\n" +
		"  Number 2\n" +
		"  Call sin\n" +
		"    Ident x"
	assert.Equal(t, want, format.Tree(expr))
}
