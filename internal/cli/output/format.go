package output

import (
	"fmt"
	"strings"
)

// FormatHeader returns a Markdown header of the given level.
func FormatHeader(level int, title string) string {
	level = max(1, min(level, 6))
	return strings.Repeat("#", level) + " " + title
}

// FormatKeyValue returns a Markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCode wraps s in inline code, escaping embedded backticks.
func FormatCode(s string) string {
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

// FormatCodeBlock returns a fenced code block.
func FormatCodeBlock(lang, body string) string {
	return "```" + lang + "\n" + strings.TrimRight(body, "\n") + "\n```"
}
