// Package sample turns a compiled expression into plot-ready series.
//
// A Range describes the x interval and resolution; Sample evaluates the
// expression over an evenly spaced grid and derives the y limits a plot
// should use.
package sample

import (
	"errors"
	"fmt"
	"math"

	"github.com/leapstack-labs/leapplot/internal/config"
)

// ErrNoValidSamples is returned when an expression yields no finite value
// anywhere on the sampled interval.
var ErrNoValidSamples = errors.New("function produces no valid values in the given range")

// Auto y-range tuning.
const (
	// Margin is the fraction of the finite span added above and below.
	Margin = 0.1
	// Clamp bounds the automatic y limits.
	Clamp = 1000.0
)

// Evaluable is anything that maps a slice of x values to y values of the same length.
type Evaluable interface {
	Eval(xs []float64) []float64
}

// Range is a sampling request.
type Range struct {
	XMin   float64
	XMax   float64
	Points int
	// YMin and YMax override the automatic y limits when set.
	YMin *float64
	YMax *float64
}

// Series is the result of sampling an expression.
type Series struct {
	X      []float64
	Y      []float64
	YMin   float64
	YMax   float64
	Finite int // number of finite y values
}

// DefaultRange returns a Range built from the sampling configuration.
func DefaultRange(cfg config.SamplingConfig) Range {
	return Range{XMin: cfg.XMin, XMax: cfg.XMax, Points: cfg.Points}
}

// Validate checks r against the configured point bounds.
func (r Range) Validate(cfg config.SamplingConfig) error {
	if math.IsNaN(r.XMin) || math.IsNaN(r.XMax) || math.IsInf(r.XMin, 0) || math.IsInf(r.XMax, 0) {
		return fmt.Errorf("x range must be finite")
	}
	if r.XMin >= r.XMax {
		return fmt.Errorf("x_min (%g) must be less than x_max (%g)", r.XMin, r.XMax)
	}
	if r.Points < cfg.MinPoints || r.Points > cfg.MaxPoints {
		return fmt.Errorf("num_points must be within [%d, %d], got %d", cfg.MinPoints, cfg.MaxPoints, r.Points)
	}
	if r.YMin != nil && r.YMax != nil && *r.YMin >= *r.YMax {
		return fmt.Errorf("y_min (%g) must be less than y_max (%g)", *r.YMin, *r.YMax)
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	xs := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	// Pin the endpoint against accumulated rounding.
	xs[n-1] = hi
	return xs
}

// Sample evaluates ev over r. Infinite values are reported as NaN.
func Sample(ev Evaluable, r Range) (*Series, error) {
	xs := Linspace(r.XMin, r.XMax, r.Points)
	ys := ev.Eval(xs)
	if len(ys) != len(xs) {
		return nil, fmt.Errorf("evaluator returned %d values for %d points", len(ys), len(xs))
	}

	finite := 0
	for i, y := range ys {
		if math.IsInf(y, 0) {
			ys[i] = math.NaN()
			continue
		}
		if !math.IsNaN(y) {
			finite++
		}
	}
	if finite == 0 {
		return nil, ErrNoValidSamples
	}

	lo, hi := AutoYRange(ys)
	if r.YMin != nil {
		lo = *r.YMin
	}
	if r.YMax != nil {
		hi = *r.YMax
	}

	return &Series{X: xs, Y: ys, YMin: lo, YMax: hi, Finite: finite}, nil
}

// AutoYRange returns the finite min and max of ys widened by Margin and
// clamped to ±Clamp. A flat series is widened by one unit each way.
// With no finite values it returns (-1, 1).
func AutoYRange(ys []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		lo = min(lo, y)
		hi = max(hi, y)
	}
	if lo > hi {
		return -1, 1
	}

	margin := (hi - lo) * Margin
	if margin == 0 {
		margin = 1
	}
	lo = max(lo-margin, -Clamp)
	hi = min(hi+margin, Clamp)
	if lo >= hi {
		// Entire series sits beyond the clamp.
		if lo >= Clamp {
			return Clamp - 1, Clamp
		}
		return -Clamp, -Clamp + 1
	}
	return lo, hi
}
