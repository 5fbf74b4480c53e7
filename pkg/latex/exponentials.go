package latex

import "strings"

// FoldExponentials rewrites powers of Euler's number into exp calls.
//
//	e**(expr)  -> exp(expr)
//	e**tok     -> exp(tok)   tok is a run of letters, digits and underscores
//	e**\cmd    -> exp(\cmd)
//
// A preceding backslash (`\e**x`) is consumed. An `e` that ends a longer
// identifier, like the one in `re**2`, is not folded.
func FoldExponentials(expr string) string {
	if !strings.Contains(expr, "e**") {
		return expr
	}
	out := make([]byte, 0, len(expr)+8)
	for i := 0; i < len(expr); {
		if expr[i] == 'e' && strings.HasPrefix(expr[i+1:], "**") {
			backslash := i > 0 && expr[i-1] == '\\'
			partOfName := !backslash && i > 0 && (isLetter(expr[i-1]) || expr[i-1] == '_')
			if !partOfName {
				if arg, end, ok := exponentArg(expr, i+3); ok {
					if backslash {
						out = out[:len(out)-1]
					}
					out = append(out, "exp("...)
					out = append(out, arg...)
					out = append(out, ')')
					i = end
					continue
				}
			}
		}
		out = append(out, expr[i])
		i++
	}
	return string(out)
}

func exponentArg(s string, j int) (string, int, bool) {
	if j >= len(s) {
		return "", 0, false
	}
	if s[j] == '(' {
		k := matchGroup(s, j)
		if k < 0 {
			return "", 0, false
		}
		return FoldExponentials(s[j+1 : k]), k + 1, true
	}
	if s[j] == '\\' {
		if name, k := readCommand(s, j); name != "" {
			return s[j:k], k, true
		}
		return "", 0, false
	}
	k := j
	for k < len(s) && isWordChar(s[k]) {
		k++
	}
	if k == j {
		return "", 0, false
	}
	return s[j:k], k, true
}
