// Package mathlib provides the standard function and constant whitelist.
//
// Every function is total over float64: inputs outside the domain produce
// NaN (or ±Inf) instead of panicking, so one bad sample never poisons the
// rest of a vector.
package mathlib

import (
	"math"

	"github.com/leapstack-labs/leapplot/pkg/core"
)

// Functions returns the standard whitelisted functions.
func Functions() []core.Function {
	return []core.Function{
		{Name: "sin", Scalar: math.Sin},
		{Name: "cos", Scalar: math.Cos},
		{Name: "tan", Scalar: math.Tan},
		{Name: "arcsin", Scalar: math.Asin},
		{Name: "arccos", Scalar: math.Acos},
		{Name: "arctan", Scalar: math.Atan},
		{Name: "sinh", Scalar: math.Sinh},
		{Name: "cosh", Scalar: math.Cosh},
		{Name: "tanh", Scalar: math.Tanh},
		{Name: "log", Scalar: math.Log},
		{Name: "log10", Scalar: math.Log10},
		{Name: "exp", Scalar: math.Exp},
		{Name: "sqrt", Scalar: math.Sqrt},
		{Name: "abs", Scalar: math.Abs},
	}
}

// Constants returns the standard named constants.
func Constants() map[string]float64 {
	return map[string]float64{
		"pi":  math.Pi,
		"e":   math.E,
		"inf": math.Inf(1),
	}
}

// Default builds the standard whitelist. Each call returns a fresh value.
func Default() core.Whitelist {
	return core.Whitelist{
		Functions: core.NewFunctionWhitelist(Functions()...),
		Constants: core.NewConstantWhitelist(Constants()),
	}
}

// Extend returns a whitelist holding the standard entries plus extra
// functions. Entries in extra replace standard ones of the same name.
func Extend(extra ...core.Function) core.Whitelist {
	fns := append(Functions(), extra...)
	return core.Whitelist{
		Functions: core.NewFunctionWhitelist(fns...),
		Constants: core.NewConstantWhitelist(Constants()),
	}
}
