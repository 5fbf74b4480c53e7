package core

import (
	"maps"
	"slices"
)

// VectorFunc applies a scalar function element-wise: dst[i] = f(src[i]).
// dst and src have equal length and may alias.
type VectorFunc func(dst, src []float64)

// Function is a whitelisted single-argument function.
type Function struct {
	Name   string
	Apply  VectorFunc
	Scalar func(float64) float64
}

// FunctionWhitelist is an immutable set of callable functions keyed by
// canonical name.
type FunctionWhitelist struct {
	funcs map[string]Function
}

// NewFunctionWhitelist builds a whitelist from fns. The input is copied.
// Entries whose Apply is nil are derived from Scalar.
func NewFunctionWhitelist(fns ...Function) FunctionWhitelist {
	m := make(map[string]Function, len(fns))
	for _, f := range fns {
		if f.Apply == nil && f.Scalar != nil {
			f.Apply = Vectorize(f.Scalar)
		}
		m[f.Name] = f
	}
	return FunctionWhitelist{funcs: m}
}

// Lookup returns the function registered under name.
func (w FunctionWhitelist) Lookup(name string) (Function, bool) {
	f, ok := w.funcs[name]
	return f, ok
}

// Has reports whether name is whitelisted.
func (w FunctionWhitelist) Has(name string) bool {
	_, ok := w.funcs[name]
	return ok
}

// Names returns the whitelisted names in sorted order.
func (w FunctionWhitelist) Names() []string {
	return slices.Sorted(maps.Keys(w.funcs))
}

// Len returns the number of functions.
func (w FunctionWhitelist) Len() int { return len(w.funcs) }

// ConstantWhitelist is an immutable set of named constants.
type ConstantWhitelist struct {
	values map[string]float64
}

// NewConstantWhitelist builds a constant whitelist. The input map is copied.
func NewConstantWhitelist(values map[string]float64) ConstantWhitelist {
	return ConstantWhitelist{values: maps.Clone(values)}
}

// Lookup returns the value of the named constant.
func (w ConstantWhitelist) Lookup(name string) (float64, bool) {
	v, ok := w.values[name]
	return v, ok
}

// Has reports whether name is a known constant.
func (w ConstantWhitelist) Has(name string) bool {
	_, ok := w.values[name]
	return ok
}

// Names returns the constant names in sorted order.
func (w ConstantWhitelist) Names() []string {
	return slices.Sorted(maps.Keys(w.values))
}

// Whitelist is the pair of tables every stage resolves names against.
type Whitelist struct {
	Functions FunctionWhitelist
	Constants ConstantWhitelist
}

// IsZero reports whether the whitelist has no functions and no constants.
func (w Whitelist) IsZero() bool {
	return len(w.Functions.funcs) == 0 && len(w.Constants.values) == 0
}

// Vectorize lifts a scalar function to a VectorFunc.
func Vectorize(f func(float64) float64) VectorFunc {
	return func(dst, src []float64) {
		for i, v := range src {
			dst[i] = f(v)
		}
	}
}
