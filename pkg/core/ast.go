package core

import "github.com/leapstack-labs/leapplot/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Variable is the name of the single free variable.
const Variable = "x"
