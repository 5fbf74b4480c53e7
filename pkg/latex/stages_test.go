package latex_test

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/leapplot/pkg/latex"
	"github.com/leapstack-labs/leapplot/pkg/mathlib"
	"github.com/stretchr/testify/assert"
)

func TestFlattenFractions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `\frac{1}{x}`, "((1)/(x))"},
		{"dfrac and tfrac", `\dfrac{a}{b}+\tfrac{c}{d}`, "((a)/(b))+((c)/(d))"},
		{"nested numerator", `\frac{\frac{1}{x}}{2}`, "((((1)/(x)))/(2))"},
		{"braces in argument", `\frac{x^{2}}{2}`, "((x^{2})/(2))"},
		{"space between groups", `\frac {1} {x}`, "((1)/(x))"},
		{"unclosed is untouched", `\frac{1}{x`, `\frac{1}{x`},
		{"not a fraction command", `\fraction{1}{2}`, `\fraction{1}{2}`},
		{"single digit arguments", `\frac12`, "((1)/(2))"},
		{"single letter arguments", `\frac ab`, "((a)/(b))"},
		{"command argument", `\frac\pi2`, `((\pi)/(2))`},
		{"token then group", `\frac1{x+1}`, "((1)/(x+1))"},
		{"only the first digit is taken", `\frac123`, "((1)/(2))3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := latex.FlattenFractions(tt.input, latex.MaxFractionPasses)
			assert.Equal(t, tt.want, got)
			assert.False(t, hit)
		})
	}
}

func nestedFraction(depth int) string {
	return strings.Repeat(`\frac{1}{`, depth) + "x" + strings.Repeat("}", depth)
}

func TestFlattenFractions_Limit(t *testing.T) {
	out, hit := latex.FlattenFractions(nestedFraction(10), 10)
	assert.False(t, hit)
	assert.NotContains(t, out, `\frac`)

	out, hit = latex.FlattenFractions(nestedFraction(11), 10)
	assert.True(t, hit)
	assert.Contains(t, out, `\frac`)

	_, hit = latex.FlattenFractions(nestedFraction(3), 2)
	assert.True(t, hit)
}

func TestNormalizePowers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x^2", "x**2"},
		{"x^{2}", "x**(2)"},
		{"x^{y^{2}}", "x**(y**(2))"},
		{"x^(2)", "x**(2)"},
		{"x^2.5", "x**2.5"},
		{"2^x", "2**x"},
		{`x^\pi`, `x**\pi`},
		{"x^-1", "x**-1"},
		{"e^{-x^2}", "e**(-x**2)"},
		{"x + 1", "x + 1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.NormalizePowers(tt.input))
		})
	}
}

func TestRewriteRoots(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`\sqrt{x}`, "sqrt(x)"},
		{`\sqrt{\sqrt{x}}`, "sqrt(sqrt(x))"},
		{`\sqrt[3]{x}`, "((x))**(1/(3))"},
		{`\sqrt[n]{x+1}`, "((x+1))**(1/(n))"},
		{`\sqrt 2`, "sqrt(2)"},
		{`\sqrt2`, "sqrt(2)"},
		{`\sqrt x`, "sqrt(x)"},
		{`\sqrt(x)`, `\sqrt(x)`},
		{`\sqrt{x`, `\sqrt{x`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.RewriteRoots(tt.input))
		})
	}
}

func TestFoldExponentials(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"e**x", "exp(x)"},
		{"e**(-x**2)", "exp(-x**2)"},
		{"e**(e**(x))", "exp(exp(x))"},
		{`\e**(2)`, "exp(2)"},
		{`e**\pi`, `exp(\pi)`},
		{"2e**x", "2exp(x)"},
		{"e**2x", "exp(2x)"},
		{"re**2", "re**2"},
		{"e**-x", "e**-x"},
		{"exp(x)", "exp(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.FoldExponentials(tt.input))
		})
	}
}

func TestMapFunctions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`\sin(x)`, "sin(x)"},
		{`\sin{x}`, "sin(x)"},
		{`\sin x`, "sin(x)"},
		{`\sin 2x`, "sin(2x)"},
		{`\sinh(x)`, "sinh(x)"},
		{`\ln(x)`, "log(x)"},
		{`\log(x)`, "log10(x)"},
		{`\sec(x)`, "(1/cos(x))"},
		{`\csc(x)`, "(1/sin(x))"},
		{`\cot(x)`, "(1/tan(x))"},
		{`\sin(\cos(x))`, "sin(cos(x))"},
		{`\sin**2(x)`, "(sin(x))**2"},
		{`\sec**(2)(x)`, "((1/cos(x)))**(2)"},
		{`\alpha+\sin(x)`, `\alpha+sin(x)`},
		{`\sin`, "sin"},
		{`x\tan(x)`, "x*tan(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.MapFunctions(tt.input))
		})
	}
}

func TestSubstituteConstants(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`2\pi`, "2(pi)"},
		{`\e`, "(e)"},
		{`\infty`, "(inf)"},
		{`x \cdot y`, "x * y"},
		{`x\times y`, "x* y"},
		{`x \div 2`, "x / 2"},
		{`\epsilon`, `\epsilon`},
		{`\pin`, `\pin`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.SubstituteConstants(tt.input))
		})
	}
}

func TestInsertImplicitMultiplication(t *testing.T) {
	fns := mathlib.Default().Functions
	tests := []struct {
		input string
		want  string
	}{
		{"2x", "2*x"},
		{"x(x+1)", "x*(x+1)"},
		{"(x)y", "(x)*y"},
		{"(x+1)(x-1)", "(x+1)*(x-1)"},
		{"3(x)", "3*(x)"},
		{"(x)2", "(x)*2"},
		{"sin(x)", "sin(x)"},
		{"2sin(x)", "2*sin(x)"},
		{"log10(x)", "log10(x)"},
		{"(1/cos(x))", "(1/cos(x))"},
		{"foo(x)", "foo*(x)"},
		{"1.5x", "1.5*x"},
		{`\left(x\right)`, `\left(x\right)`},
		{`x+\left(x\right)`, `x+\left(x\right)`},
		{`2\left(x\right)`, `2\left(x\right)`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.InsertImplicitMultiplication(tt.input, fns))
		})
	}
}

func TestCleanup(t *testing.T) {
	fns := mathlib.Default().Functions
	tests := []struct {
		input string
		want  string
	}{
		{"{x}+1", "(x)+1"},
		{"x + 1", "x+1"},
		{"|x|", "abs(x)"},
		{"2|x-1|", "2*abs(x-1)"},
		{`\left(x\right)`, "(x)"},
		{`x+\left(x\right)`, "x+(x)"},
		{`2\,x`, "2*x"},
		{`\unknown{x}`, "(x)"},
		{"{a}{b}", "(a)*(b)"},
		{"(pi) x", "(pi)*x"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.Cleanup(tt.input, fns))
		})
	}
}
