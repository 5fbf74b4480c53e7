package format

import "github.com/leapstack-labs/leapplot/pkg/core"

// Expr renders e as a canonical expression with the fewest parentheses
// that preserve its grouping. The output parses back to an equivalent tree.
func Expr(e core.Expr) string {
	p := newPrinter()
	p.formatExpr(e)
	return p.String()
}

// Tree renders e as an indented outline, one node per line.
func Tree(e core.Expr) string {
	p := newPrinter()
	p.formatTree(e)
	return p.String()
}
