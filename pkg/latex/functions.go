package latex

import (
	"maps"
	"slices"
	"strings"
)

// FunctionCommand describes how a LaTeX function command is rewritten.
type FunctionCommand struct {
	// Canonical is the whitelisted function the command maps to.
	Canonical string
	// Reciprocal commands emit (1/Canonical(arg)).
	Reciprocal bool
}

var functionCommands = map[string]FunctionCommand{
	"sin":    {Canonical: "sin"},
	"cos":    {Canonical: "cos"},
	"tan":    {Canonical: "tan"},
	"cot":    {Canonical: "tan", Reciprocal: true},
	"sec":    {Canonical: "cos", Reciprocal: true},
	"csc":    {Canonical: "sin", Reciprocal: true},
	"arcsin": {Canonical: "arcsin"},
	"arccos": {Canonical: "arccos"},
	"arctan": {Canonical: "arctan"},
	"sinh":   {Canonical: "sinh"},
	"cosh":   {Canonical: "cosh"},
	"tanh":   {Canonical: "tanh"},
	"ln":     {Canonical: "log"},
	"log":    {Canonical: "log10"},
	"exp":    {Canonical: "exp"},
	"sqrt":   {Canonical: "sqrt"},
	"abs":    {Canonical: "abs"},
}

// FunctionCommands returns the recognised command names, sorted.
func FunctionCommands() []string {
	return slices.Sorted(maps.Keys(functionCommands))
}

// LookupFunctionCommand returns the rewrite for a command name (without the
// backslash).
func LookupFunctionCommand(name string) (FunctionCommand, bool) {
	fc, ok := functionCommands[name]
	return fc, ok
}

// MapFunctions rewrites LaTeX function commands into canonical calls.
//
//	\sin{arg}, \sin(arg), \sin arg -> sin(arg)
//	\sec(arg)                      -> (1/cos(arg))
//	\sin**2(arg)                   -> (sin(arg))**2
//
// A bare argument is a run of letters, digits and dots. Arguments are
// rewritten recursively. A command with no recognisable argument is
// replaced by its canonical name alone.
func MapFunctions(expr string) string {
	if !strings.Contains(expr, `\`) {
		return expr
	}
	out := make([]byte, 0, len(expr)+16)
	for i := 0; i < len(expr); {
		if expr[i] == '\\' {
			name, j := readCommand(expr, i)
			if fc, ok := functionCommands[name]; ok {
				call, end := mapFunction(expr, j, fc)
				// Keep `x\tan(x)` from fusing into the identifier `xtan`.
				if n := len(out); n > 0 && isLetter(out[n-1]) {
					out = append(out, '*')
				}
				out = append(out, call...)
				i = end
				continue
			}
			if name == "" {
				out = append(out, '\\')
				i++
				continue
			}
			out = append(out, expr[i:j]...)
			i = j
			continue
		}
		out = append(out, expr[i])
		i++
	}
	return string(out)
}

func mapFunction(s string, j int, fc FunctionCommand) (string, int) {
	power, k := functionPower(s, j)

	arg, end, ok := functionArg(s, k)
	if !ok {
		// No argument: emit the bare name and leave the rest to later stages.
		return fc.Canonical, j
	}

	call := fc.Canonical + "(" + MapFunctions(arg) + ")"
	if fc.Reciprocal {
		call = "(1/" + call + ")"
	}
	if power != "" {
		call = "(" + call + ")**" + power
	}
	return call, end
}

// functionPower reads an exponent written between the command and its
// argument, as in `\sin**2(x)` or `\sin**(2)(x)`.
func functionPower(s string, j int) (string, int) {
	if !strings.HasPrefix(s[j:], "**") {
		return "", j
	}
	k := j + 2
	if k < len(s) && isDigit(s[k]) {
		num, end := readNumber(s, k)
		return num, end
	}
	if k < len(s) && s[k] == '(' {
		if end := matchGroup(s, k); end >= 0 {
			return "(" + MapFunctions(s[k+1:end]) + ")", end + 1
		}
	}
	return "", j
}

func functionArg(s string, j int) (string, int, bool) {
	k := skipSpaces(s, j)
	if k >= len(s) {
		return "", 0, false
	}
	if s[k] == '{' || s[k] == '(' {
		end := matchGroup(s, k)
		if end < 0 {
			return "", 0, false
		}
		return s[k+1 : end], end + 1, true
	}
	end := k
	for end < len(s) && (isLetter(s[end]) || isDigit(s[end]) || s[end] == '.') {
		end++
	}
	if end == k {
		return "", 0, false
	}
	return s[k:end], end, true
}
