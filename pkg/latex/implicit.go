package latex

import (
	"regexp"

	"github.com/leapstack-labs/leapplot/pkg/core"
)

// implicitRules make juxtaposition explicit. Each rule pairs two disjoint
// character classes, so a single non-overlapping pass per rule is enough.
// Letter before `(` is handled by letterParen.
var implicitRules = []rule{
	{regexp.MustCompile(`(\d)([A-Za-z])`), "${1}*${2}"}, // 2x   -> 2*x
	{regexp.MustCompile(`\)([A-Za-z])`), ")*${1}"},      // )x   -> )*x
	{regexp.MustCompile(`\)\(`), ")*("},                 // )(   -> )*(
	{regexp.MustCompile(`(\d)\(`), "${1}*("},            // 2(   -> 2*(
	{regexp.MustCompile(`\)(\d)`), ")*${1}"},            // )2   -> )*2
}

// letterParen matches a letter run before `(`. A run that starts with a
// backslash is a command (`\left(`) and is copied through unchanged.
var letterParen = regexp.MustCompile(`\\?[A-Za-z]+\(`)

var callRepair = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9]*\*\(`)

// InsertImplicitMultiplication inserts `*` between juxtaposed factors and
// then removes it again between a whitelisted function name and its
// argument list, so `2\sin(x)` ends up as `2*sin(x)` and never `sin*(x)`.
func InsertImplicitMultiplication(expr string, fns core.FunctionWhitelist) string {
	for _, r := range implicitRules {
		expr = r.re.ReplaceAllString(expr, r.repl)
	}
	expr = letterParen.ReplaceAllStringFunc(expr, func(m string) string {
		if m[0] == '\\' {
			return m
		}
		return m[:len(m)-1] + "*("
	})
	return RepairCalls(expr, fns)
}

// RepairCalls collapses `name*(` into `name(` for every whitelisted name.
func RepairCalls(expr string, fns core.FunctionWhitelist) string {
	return callRepair.ReplaceAllStringFunc(expr, func(m string) string {
		name := m[:len(m)-2]
		if fns.Has(name) {
			return name + "("
		}
		return m
	})
}
