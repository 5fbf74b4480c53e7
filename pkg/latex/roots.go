package latex

import "strings"

// RewriteRoots rewrites square and nth roots.
//
//	\sqrt[n]{expr}  -> ((expr))**(1/(n))
//	\sqrt{expr}     -> sqrt(expr)
//	\sqrt tok       -> sqrt(tok)   tok is one number or one letter
//
// Arguments are rewritten recursively. `\sqrt(` is left for MapFunctions.
func RewriteRoots(expr string) string {
	if !strings.Contains(expr, `\sqrt`) {
		return expr
	}
	var b strings.Builder
	b.Grow(len(expr) + 8)
	for i := 0; i < len(expr); {
		if expr[i] == '\\' {
			if name, j := readCommand(expr, i); name == "sqrt" {
				if out, end, ok := rewriteRoot(expr, j); ok {
					b.WriteString(out)
					i = end
					continue
				}
			}
		}
		b.WriteByte(expr[i])
		i++
	}
	return b.String()
}

// rewriteRoot parses the root argument starting right after `\sqrt`.
func rewriteRoot(s string, start int) (string, int, bool) {
	j := skipSpaces(s, start)
	if j >= len(s) {
		return "", 0, false
	}

	switch {
	case s[j] == '[':
		k := matchGroup(s, j)
		if k < 0 {
			return "", 0, false
		}
		index := s[j+1 : k]
		m := skipSpaces(s, k+1)
		if m >= len(s) || s[m] != '{' {
			return "", 0, false
		}
		end := matchGroup(s, m)
		if end < 0 {
			return "", 0, false
		}
		radicand := RewriteRoots(s[m+1 : end])
		return "((" + radicand + "))**(1/(" + RewriteRoots(index) + "))", end + 1, true

	case s[j] == '{':
		end := matchGroup(s, j)
		if end < 0 {
			return "", 0, false
		}
		return "sqrt(" + RewriteRoots(s[j+1:end]) + ")", end + 1, true

	case isDigit(s[j]):
		num, end := readNumber(s, j)
		return "sqrt(" + num + ")", end, true

	case isLetter(s[j]) && j > start:
		// `\sqrtx` would have been read as one command, so a letter is
		// only an argument after whitespace.
		return "sqrt(" + s[j:j+1] + ")", j + 1, true
	}
	return "", 0, false
}
