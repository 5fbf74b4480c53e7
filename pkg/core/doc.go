// Package core defines the shared language of the LeapPlot compiler.
//
// This package contains:
//   - AST nodes for canonical arithmetic expressions (Expr and friends)
//   - The function/constant whitelist types passed into every stage
//   - Typed errors shared by the normalizer, validator and compiler
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
