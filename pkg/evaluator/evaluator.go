// Package evaluator compiles a validated expression AST into a vectorized
// numeric function.
//
// Evaluation never fails as a whole: per-point problems (division by zero,
// domain errors, overflow) yield NaN at that point, and anything that would
// abort the call yields a slice of NaN with the input's length.
package evaluator

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/token"
)

// Evaluator is a compiled expression bound to the free variable x.
// It is immutable and safe for concurrent use.
type Evaluator struct {
	expr core.Expr
	root *node
}

// node is a compiled subtree. Constant subtrees are folded at compile time.
type node struct {
	constant bool
	value    float64
	eval     func(xs []float64) []float64 // returns a fresh slice
}

// values returns the subtree's values for xs in a slice the caller owns.
func (n *node) values(xs []float64) []float64 {
	if n.constant {
		out := make([]float64, len(xs))
		for i := range out {
			out[i] = n.value
		}
		return out
	}
	return n.eval(xs)
}

// Compile resolves every name in expr against wl and builds the evaluator.
// Unresolvable names produce *core.InvalidExpressionError, so an AST that
// passed package validate with the same whitelist always compiles.
func Compile(expr core.Expr, wl core.Whitelist) (*Evaluator, error) {
	if expr == nil {
		return nil, fmt.Errorf("evaluator: nil expression")
	}
	root, err := compileNode(expr, wl)
	if err != nil {
		return nil, err
	}
	return &Evaluator{expr: expr, root: root}, nil
}

// Expr returns the AST the evaluator was compiled from.
func (e *Evaluator) Expr() core.Expr {
	return e.expr
}

// Constant reports whether the expression does not depend on x, and its value.
func (e *Evaluator) Constant() (float64, bool) {
	if !e.root.constant {
		return 0, false
	}
	return finite(e.root.value), true
}

// Eval evaluates the expression at every element of xs. The result has the
// same length as xs; non-finite values are reported as NaN.
func (e *Evaluator) Eval(xs []float64) (ys []float64) {
	defer func() {
		if r := recover(); r != nil {
			ys = nanSlice(len(xs))
		}
	}()

	out := e.root.values(xs)
	if len(out) != len(xs) {
		return nanSlice(len(xs))
	}
	for i, v := range out {
		out[i] = finite(v)
	}
	return out
}

// EvalAt evaluates the expression at a single point.
func (e *Evaluator) EvalAt(x float64) float64 {
	return e.Eval([]float64{x})[0]
}

// AllNaN reports whether every element of ys is NaN. An empty slice is all NaN.
func AllNaN(ys []float64) bool {
	for _, y := range ys {
		if !math.IsNaN(y) {
			return false
		}
	}
	return true
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// ---------- Compilation ----------

func compileNode(e core.Expr, wl core.Whitelist) (*node, error) {
	switch n := e.(type) {
	case *core.NumberLit:
		return &node{constant: true, value: n.Value}, nil

	case *core.Ident:
		if n.IsVariable() {
			return &node{eval: func(xs []float64) []float64 {
				out := make([]float64, len(xs))
				copy(out, xs)
				return out
			}}, nil
		}
		v, ok := wl.Constants.Lookup(n.Name)
		if !ok {
			return nil, core.Invalid(core.ReasonUnknownIdentifier, "unknown identifier %q", n.Name)
		}
		return &node{constant: true, value: v}, nil

	case *core.ParenExpr:
		return compileNode(n.Expr, wl)

	case *core.UnaryExpr:
		return compileUnary(n, wl)

	case *core.BinaryExpr:
		return compileBinary(n, wl)

	case *core.CallExpr:
		return compileCall(n, wl)

	default:
		return nil, fmt.Errorf("evaluator: unsupported node %T", e)
	}
}

func compileUnary(u *core.UnaryExpr, wl core.Whitelist) (*node, error) {
	operand, err := compileNode(u.Expr, wl)
	if err != nil {
		return nil, err
	}
	if u.Op == token.PLUS {
		return operand, nil
	}
	if operand.constant {
		return &node{constant: true, value: -operand.value}, nil
	}
	return &node{eval: func(xs []float64) []float64 {
		out := operand.eval(xs)
		for i := range out {
			out[i] = -out[i]
		}
		return out
	}}, nil
}

func compileBinary(b *core.BinaryExpr, wl core.Whitelist) (*node, error) {
	left, err := compileNode(b.Left, wl)
	if err != nil {
		return nil, err
	}
	right, err := compileNode(b.Right, wl)
	if err != nil {
		return nil, err
	}
	op, err := binaryOp(b.Op)
	if err != nil {
		return nil, err
	}

	if left.constant && right.constant {
		return &node{constant: true, value: op(left.value, right.value)}, nil
	}
	return &node{eval: func(xs []float64) []float64 {
		l := left.values(xs)
		r := right.values(xs)
		for i := range l {
			l[i] = op(l[i], r[i])
		}
		return l
	}}, nil
}

func compileCall(c *core.CallExpr, wl core.Whitelist) (*node, error) {
	fn, ok := wl.Functions.Lookup(c.Func)
	if !ok || fn.Apply == nil {
		return nil, core.Invalid(core.ReasonUnknownFunction, "unknown function %q", c.Func)
	}
	if len(c.Args) != 1 {
		return nil, core.Invalid(core.ReasonArity, "%s takes 1 argument, got %d", c.Func, len(c.Args))
	}
	arg, err := compileNode(c.Args[0], wl)
	if err != nil {
		return nil, err
	}

	if arg.constant {
		return &node{constant: true, value: applyScalar(fn.Apply, arg.value)}, nil
	}
	return &node{eval: func(xs []float64) []float64 {
		out := arg.eval(xs)
		fn.Apply(out, out)
		return out
	}}, nil
}

func binaryOp(t token.TokenType) (func(a, b float64) float64, error) {
	switch t {
	case token.PLUS:
		return func(a, b float64) float64 { return a + b }, nil
	case token.MINUS:
		return func(a, b float64) float64 { return a - b }, nil
	case token.STAR:
		return func(a, b float64) float64 { return a * b }, nil
	case token.SLASH:
		return divide, nil
	case token.POW:
		return math.Pow, nil
	default:
		return nil, fmt.Errorf("evaluator: unsupported operator %s", t)
	}
}

// applyScalar folds a constant argument. A panicking function folds to NaN.
func applyScalar(f core.VectorFunc, v float64) (out float64) {
	defer func() {
		if r := recover(); r != nil {
			out = math.NaN()
		}
	}()
	buf := []float64{v}
	f(buf, buf)
	return buf[0]
}

// divide maps division by zero to NaN instead of ±Inf.
func divide(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a / b
}
