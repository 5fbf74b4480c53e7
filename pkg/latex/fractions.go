package latex

import "strings"

// MaxFractionPasses bounds the number of FlattenFractions passes.
// Each pass removes one level of nesting.
const MaxFractionPasses = 10

var fractionCommands = map[string]bool{
	"frac":  true,
	"dfrac": true,
	"tfrac": true,
}

// FlattenFractions replaces every innermost `\frac{a}{b}` (also `\dfrac`
// and `\tfrac`) with `((a)/(b))`, repeating for at most maxPasses passes.
// Arguments are balanced brace groups or single tokens. A fraction whose
// braces never close is left untouched.
//
// The second result reports whether a complete fraction was still present
// after the last pass, i.e. the nesting was deeper than maxPasses.
// A maxPasses below 1 means MaxFractionPasses.
func FlattenFractions(expr string, maxPasses int) (string, bool) {
	if maxPasses < 1 {
		maxPasses = MaxFractionPasses
	}
	for range maxPasses {
		next, n := flattenInnermost(expr)
		if n == 0 {
			return expr, false
		}
		expr = next
	}
	_, remaining := flattenInnermost(expr)
	return expr, remaining > 0
}

type fraction struct {
	num, den string
	end      int // index after the closing brace of the denominator
}

// flattenInnermost runs one pass and returns the count of replacements.
func flattenInnermost(s string) (string, int) {
	if !strings.Contains(s, `\`) {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	n := 0
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			if f, ok := parseFraction(s, i); ok && !containsFraction(f.num) && !containsFraction(f.den) {
				b.WriteString("((")
				b.WriteString(f.num)
				b.WriteString(")/(")
				b.WriteString(f.den)
				b.WriteString("))")
				i = f.end
				n++
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String(), n
}

// parseFraction recognises `\frac{num}{den}` at s[i]. As in TeX, either
// argument may also be a single token, so `\frac12` is `\frac{1}{2}` and
// `\frac\pi x` is `\frac{\pi}{x}`.
func parseFraction(s string, i int) (fraction, bool) {
	name, j := readCommand(s, i)
	if !fractionCommands[name] {
		return fraction{}, false
	}
	num, j, ok := fractionArg(s, j)
	if !ok {
		return fraction{}, false
	}
	den, j, ok := fractionArg(s, j)
	if !ok {
		return fraction{}, false
	}
	return fraction{num: num, den: den, end: j}, true
}

// fractionArg reads a brace group, one digit, one letter or one non-fraction
// command starting at or after s[j].
func fractionArg(s string, j int) (string, int, bool) {
	j = skipSpaces(s, j)
	if j >= len(s) {
		return "", 0, false
	}
	switch c := s[j]; {
	case c == '{':
		k := matchGroup(s, j)
		if k < 0 {
			return "", 0, false
		}
		return s[j+1 : k], k + 1, true
	case isDigit(c) || isLetter(c):
		return s[j : j+1], j + 1, true
	case c == '\\':
		name, k := readCommand(s, j)
		if name == "" || fractionCommands[name] {
			return "", 0, false
		}
		return s[j:k], k, true
	}
	return "", 0, false
}

func containsFraction(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		if name, _ := readCommand(s, i); fractionCommands[name] {
			return true
		}
	}
	return false
}
