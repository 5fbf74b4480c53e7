package latex

// Byte-level helpers shared by the stages. Expressions are treated as ASCII;
// non-ASCII bytes are copied through untouched.

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// skipSpaces returns the first index at or after i that is not whitespace.
func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// matchGroup returns the index of the bracket closing the one at s[i],
// or -1 when s[i] is not an opening bracket or the group never closes.
func matchGroup(s string, i int) int {
	if i >= len(s) {
		return -1
	}
	var open, closing byte
	switch s[i] {
	case '{':
		open, closing = '{', '}'
	case '(':
		open, closing = '(', ')'
	case '[':
		open, closing = '[', ']'
	default:
		return -1
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// readCommand reads the letters of a backslash command starting at s[i]
// (which must be '\'). It returns the name and the index after it. The name
// is empty for a lone backslash or a control symbol such as `\,`.
func readCommand(s string, i int) (string, int) {
	j := i + 1
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	return s[i+1 : j], j
}

// readNumber reads `digits[.digits]` or `.digits` at s[i].
func readNumber(s string, i int) (string, int) {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '.' && j+1 < len(s) && isDigit(s[j+1]) {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	return s[i:j], j
}

// replaceCommands rewrites every backslash command for which fn reports a
// replacement. Other text, including unmatched commands, is copied verbatim.
func replaceCommands(s string, fn func(name string) (string, bool)) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			name, end := readCommand(s, i)
			if name != "" {
				if repl, ok := fn(name); ok {
					out = append(out, repl...)
					i = end
					continue
				}
				out = append(out, s[i:end]...)
				i = end
				continue
			}
		}
		out = append(out, s[i])
		i++
	}
	return string(out)
}
