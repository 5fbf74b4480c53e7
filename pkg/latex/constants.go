package latex

import (
	"maps"
	"slices"
)

// commandReplacements maps constant and operator commands to canonical text.
// Constants are parenthesised so that juxtaposition (`2\pi`) stays explicit.
var commandReplacements = map[string]string{
	"pi":    "(pi)",
	"e":     "(e)",
	"infty": "(inf)",
	"cdot":  "*",
	"times": "*",
	"div":   "/",
}

// ConstantCommands returns the constant and operator command names, sorted.
func ConstantCommands() []string {
	return slices.Sorted(maps.Keys(commandReplacements))
}

// SubstituteConstants replaces `\pi`, `\e` and `\infty` with `(pi)`, `(e)`
// and `(inf)`, and the operator commands `\cdot`, `\times`, `\div` with
// `*`, `*` and `/`. A command only matches as a whole word, so `\epsilon`
// and `\pin` are left alone.
func SubstituteConstants(expr string) string {
	return replaceCommands(expr, func(name string) (string, bool) {
		repl, ok := commandReplacements[name]
		return repl, ok
	})
}
