package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapplot/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error at column %d: %s", e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken = "unexpected token %s, expected %s"
	ErrIllegalChar     = "illegal character %q"
	ErrInvalidNumber   = "invalid number literal %q"
	ErrTrailingInput   = "unexpected %s after end of expression"
	ErrEmptyExpression = "empty expression"
)
