package core

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Reason
// =============================================================================

// Reason classifies why an expression was rejected.
type Reason int

// Rejection reasons, in the order the validator checks them.
const (
	// ReasonForbiddenToken means a denied substring was found.
	ReasonForbiddenToken Reason = iota + 1
	// ReasonUnbalanced means parentheses do not pair up.
	ReasonUnbalanced
	// ReasonSyntax means the canonical expression does not parse.
	ReasonSyntax
	// ReasonUnknownIdentifier means a bare name is neither x nor a constant.
	ReasonUnknownIdentifier
	// ReasonUnknownFunction means a call targets a name outside the whitelist.
	ReasonUnknownFunction
	// ReasonArity means a whitelisted function got the wrong number of arguments.
	ReasonArity
	// ReasonFractionDepth means fractions were nested deeper than the rewrite bound.
	ReasonFractionDepth
)

var reasonNames = map[Reason]string{
	ReasonForbiddenToken:    "forbidden_token",
	ReasonUnbalanced:        "unbalanced",
	ReasonSyntax:            "syntax",
	ReasonUnknownIdentifier: "unknown_identifier",
	ReasonUnknownFunction:   "unknown_function",
	ReasonArity:             "arity",
	ReasonFractionDepth:     "fraction_depth",
}

// String returns the snake_case name of the reason.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseReason converts a string to a Reason value.
func ParseReason(s string) (Reason, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range reasonNames {
		if name == s {
			return r, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// =============================================================================
// Errors
// =============================================================================

// EmptyInputError is returned when the raw expression is blank after trimming.
type EmptyInputError struct {
	// Input is the text as received, before trimming.
	Input string
}

func (e *EmptyInputError) Error() string {
	if e.Input == "" {
		return "empty expression"
	}
	return "empty expression after removing left-hand side"
}

// InvalidExpressionError is returned when an expression fails validation.
type InvalidExpressionError struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *InvalidExpressionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid expression (%s): %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid expression (%s): %s", e.Reason, e.Message)
}

func (e *InvalidExpressionError) Unwrap() error {
	return e.Err
}

// Invalid builds an InvalidExpressionError with a formatted message.
func Invalid(reason Reason, format string, args ...any) *InvalidExpressionError {
	return &InvalidExpressionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsReason reports whether err is an InvalidExpressionError with the given reason.
func IsReason(err error, reason Reason) bool {
	var ie *InvalidExpressionError
	if errors.As(err, &ie) {
		return ie.Reason == reason
	}
	return false
}

// IsEmptyInput reports whether err is an EmptyInputError.
func IsEmptyInput(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}

// ReasonOf returns a short machine-readable label for err: the Reason of an
// InvalidExpressionError, "empty_input" for EmptyInputError, "internal" for
// anything else and "" for nil.
func ReasonOf(err error) string {
	var ie *InvalidExpressionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ie):
		return ie.Reason.String()
	case IsEmptyInput(err):
		return "empty_input"
	default:
		return "internal"
	}
}
