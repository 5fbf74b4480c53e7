package latex

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapplot/pkg/core"
)

// lhsPatterns are tried in order; the first one that matches is removed.
var lhsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[yY]\s*=\s*`),                 // y = ...
	regexp.MustCompile(`^[A-Za-z]\s*\([^)]*\)\s*=\s*`), // f(x) = ...
	regexp.MustCompile(`^[A-Za-z]+\s*=\s*`),            // name = ...
}

// Normalize trims raw and strips a leading left-hand side such as `y =`,
// `f(x) =` or `name =`. Input without a left-hand side is returned trimmed.
// Blank input, before or after stripping, yields *core.EmptyInputError.
func Normalize(raw string) (string, error) {
	expr := strings.TrimSpace(raw)
	if expr == "" {
		return "", &core.EmptyInputError{}
	}

	for _, re := range lhsPatterns {
		if loc := re.FindStringIndex(expr); loc != nil {
			expr = expr[loc[1]:]
			break
		}
	}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", &core.EmptyInputError{Input: raw}
	}
	return expr, nil
}
