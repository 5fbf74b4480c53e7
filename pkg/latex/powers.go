package latex

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// powerRules handle the unbraced exponent forms, in order.
var powerRules = []rule{
	{regexp.MustCompile(`\^\s*\(`), "**("},
	{regexp.MustCompile(`\^\s*(\d+(?:\.\d+)?)`), "**${1}"},
	{regexp.MustCompile(`\^\s*(\\[A-Za-z]+)`), "**${1}"},
	{regexp.MustCompile(`\^\s*([A-Za-z])`), "**${1}"},
	{regexp.MustCompile(`\^\s*([+-])`), "**${1}"},
}

// NormalizePowers rewrites `^` exponents into `**`.
//
// `^{expr}` becomes `**(expr)` with expr rewritten recursively; `^(` becomes
// `**(`; a bare exponent (a number, a single letter, a command such as
// `\pi`, or a sign) follows `**` directly. Postcondition: every `^` left in
// the output had no recognisable exponent.
func NormalizePowers(expr string) string {
	if !strings.Contains(expr, "^") {
		return expr
	}
	expr = braceExponents(expr)
	for _, r := range powerRules {
		expr = r.re.ReplaceAllString(expr, r.repl)
	}
	return expr
}

func braceExponents(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		if s[i] == '^' {
			j := skipSpaces(s, i+1)
			if k := matchGroup(s, j); k >= 0 && s[j] == '{' {
				b.WriteString("**(")
				b.WriteString(braceExponents(s[j+1 : k]))
				b.WriteByte(')')
				i = k + 1
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
