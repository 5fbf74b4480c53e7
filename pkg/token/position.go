package token

import "fmt"

// Position represents a location in an expression.
// Expressions are single-line, so only the column and offset vary.
type Position struct {
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (column > 0).
func (p Position) IsValid() bool {
	return p.Column > 0
}

// String renders the position as "col N".
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("col %d", p.Column)
}

// Span represents a range in an expression.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}
