package latex

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapplot/pkg/core"
)

var (
	spacingCommand = regexp.MustCompile(`\\[,;:! ]`)
	anyCommand     = regexp.MustCompile(`\\[A-Za-z]+`)
	absoluteValue  = regexp.MustCompile(`\|([^|]+)\|`)
	braces         = strings.NewReplacer("{", "(", "}", ")")
)

// Cleanup is the final, lossy stage. It drops any backslash command still
// present (`\left`, `\,`, unknown macros), turns braces into parentheses,
// strips whitespace and rewrites `|expr|` to `abs(expr)`. Juxtapositions
// exposed by these steps are made explicit with InsertImplicitMultiplication.
func Cleanup(expr string, fns core.FunctionWhitelist) string {
	expr = spacingCommand.ReplaceAllString(expr, "")
	expr = anyCommand.ReplaceAllString(expr, "")
	expr = braces.Replace(expr)
	expr = strings.Join(strings.Fields(expr), "")
	expr = absoluteValue.ReplaceAllString(expr, "abs(${1})")
	return InsertImplicitMultiplication(expr, fns)
}
