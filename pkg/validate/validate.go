// Package validate decides whether a canonical expression is safe to evaluate.
//
// Checks run in a fixed order and stop at the first violation:
//
//  1. denied substrings (case-insensitive)
//  2. parenthesis balance
//  3. grammar (package parser)
//  4. name resolution against the whitelist
//
// Every failure is a *core.InvalidExpressionError carrying a core.Reason.
package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/parser"
)

var deniedSubstrings = []string{
	"import", "exec", "eval", "open", "file", "__", "os.", "sys.",
	"lambda", "getattr", "setattr", "globals", "locals", "builtins",
	"subprocess", "compile",
}

// DeniedSubstrings returns the substrings that cause immediate rejection.
func DeniedSubstrings() []string {
	return slices.Clone(deniedSubstrings)
}

// Validator checks canonical expressions against a whitelist.
// A Validator is immutable and safe for concurrent use.
type Validator struct {
	whitelist core.Whitelist
}

// New creates a validator that resolves names against wl.
func New(wl core.Whitelist) *Validator {
	return &Validator{whitelist: wl}
}

// Whitelist returns the whitelist the validator resolves against.
func (v *Validator) Whitelist() core.Whitelist {
	return v.whitelist
}

// Validate reports whether expr is acceptable.
func (v *Validator) Validate(expr string) error {
	_, err := v.Check(expr)
	return err
}

// Check validates expr and returns its AST.
func (v *Validator) Check(expr string) (core.Expr, error) {
	if err := CheckDenied(expr); err != nil {
		return nil, err
	}
	if err := CheckBalance(expr); err != nil {
		return nil, err
	}

	ast, err := parser.Parse(expr)
	if err != nil {
		return nil, &core.InvalidExpressionError{
			Reason:  core.ReasonSyntax,
			Message: "expression does not parse",
			Err:     err,
		}
	}

	if err := v.CheckNames(ast); err != nil {
		return nil, err
	}
	return ast, nil
}

// CheckDenied rejects expressions containing a denied substring.
func CheckDenied(expr string) error {
	lower := strings.ToLower(expr)
	for _, s := range deniedSubstrings {
		if strings.Contains(lower, s) {
			return core.Invalid(core.ReasonForbiddenToken, "contains forbidden token %q", s)
		}
	}
	return nil
}

// CheckBalance rejects expressions whose parentheses do not pair up.
func CheckBalance(expr string) error {
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return core.Invalid(core.ReasonUnbalanced, "unexpected ')' at column %d", i+1)
			}
		}
	}
	if depth != 0 {
		return core.Invalid(core.ReasonUnbalanced, "%d unclosed '('", depth)
	}
	return nil
}

// CheckNames resolves every identifier and call in ast. Bare identifiers
// must be the variable x or a whitelisted constant; calls must target a
// whitelisted function with exactly one argument.
func (v *Validator) CheckNames(ast core.Expr) error {
	var err error
	core.Walk(ast, func(e core.Expr) bool {
		if err != nil {
			return false
		}
		switch n := e.(type) {
		case *core.Ident:
			if !n.IsVariable() && !v.whitelist.Constants.Has(n.Name) {
				err = core.Invalid(core.ReasonUnknownIdentifier, "unknown identifier %q at %s", n.Name, n.Pos())
			}
		case *core.CallExpr:
			switch {
			case !v.whitelist.Functions.Has(n.Func):
				err = core.Invalid(core.ReasonUnknownFunction, "unknown function %q at %s", n.Func, n.Pos())
			case len(n.Args) != 1:
				err = core.Invalid(core.ReasonArity, "%s takes 1 argument, got %d", n.Func, len(n.Args))
			}
		}
		return err == nil
	})
	return err
}

// Validate checks expr against wl.
func Validate(expr string, wl core.Whitelist) error {
	return New(wl).Validate(expr)
}

// Describe returns a one-line, user-facing explanation of a validation error.
func Describe(err error) string {
	var ie *core.InvalidExpressionError
	if errors.As(err, &ie) {
		return fmt.Sprintf("%s: %s", ie.Reason, ie.Message)
	}
	return err.Error()
}
