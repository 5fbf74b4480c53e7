// Package compiler is the entry point for turning LaTeX-like notation into a
// sampled function.
//
// # Usage
//
//	prog, err := compiler.Compile(`y = \frac{\sin(x)}{x}`)
//	if err != nil {
//	    // *core.EmptyInputError or *core.InvalidExpressionError
//	}
//	ys := prog.Eval(xs)
//
// Compile runs Normalize, the rewrite pipeline, the validator and the
// evaluator compiler in that order and fails fast.
package compiler

import (
	"log/slog"
	"math"
	"sync"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/evaluator"
	"github.com/leapstack-labs/leapplot/pkg/format"
	"github.com/leapstack-labs/leapplot/pkg/latex"
	"github.com/leapstack-labs/leapplot/pkg/mathlib"
	"github.com/leapstack-labs/leapplot/pkg/validate"
)

// ProbeX is the point Program.Probe evaluates at.
const ProbeX = 1.0

// Program is a compiled expression.
type Program struct {
	// Raw is the input as received.
	Raw string
	// Normalized is Raw without its left-hand side.
	Normalized string
	// Canonical is the rewritten arithmetic expression.
	Canonical string
	// Trace holds every rewrite stage output.
	Trace latex.Result
	// Expr is the validated AST of Canonical.
	Expr core.Expr
	// Evaluator samples the expression.
	Evaluator *evaluator.Evaluator
}

// Eval evaluates the program at every element of xs.
func (p *Program) Eval(xs []float64) []float64 {
	return p.Evaluator.Eval(xs)
}

// Probe evaluates at ProbeX and reports whether the value is a number.
func (p *Program) Probe() (float64, bool) {
	y := p.Evaluator.EvalAt(ProbeX)
	return y, !math.IsNaN(y)
}

// Pretty returns the canonical expression with redundant parentheses removed.
func (p *Program) Pretty() string {
	return format.Expr(p.Expr)
}

// Compiler holds the whitelist and the stages built from it.
// A Compiler is immutable and safe for concurrent use.
type Compiler struct {
	whitelist      core.Whitelist
	fractionPasses int
	pipeline       *latex.Pipeline
	validator      *validate.Validator
	logger         *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithWhitelist replaces the default whitelist.
func WithWhitelist(wl core.Whitelist) Option {
	return func(c *Compiler) {
		c.whitelist = wl
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithFractionPasses bounds fraction flattening; deeper nesting is rejected.
func WithFractionPasses(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.fractionPasses = n
		}
	}
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{fractionPasses: latex.MaxFractionPasses}
	for _, opt := range opts {
		opt(c)
	}
	if c.whitelist.IsZero() {
		c.whitelist = mathlib.Default()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.pipeline = latex.NewPipeline(c.whitelist, latex.WithFractionPasses(c.fractionPasses))
	c.validator = validate.New(c.whitelist)
	return c
}

// Whitelist returns the whitelist names are resolved against.
func (c *Compiler) Whitelist() core.Whitelist {
	return c.whitelist
}

// Rewrite normalizes raw and traces the rewrite pipeline without validating.
func (c *Compiler) Rewrite(raw string) (string, latex.Result, error) {
	normalized, err := latex.Normalize(raw)
	if err != nil {
		return "", latex.Result{}, err
	}
	return normalized, c.pipeline.Trace(normalized), nil
}

// Compile turns raw notation into a Program.
func (c *Compiler) Compile(raw string) (*Program, error) {
	normalized, trace, err := c.Rewrite(raw)
	if err != nil {
		return nil, err
	}

	// Screen the raw input too: normalizing and cleanup drop text, so
	// `eval = x` or `\import` would otherwise never reach the validator.
	if err := validate.CheckDenied(raw); err != nil {
		return nil, c.reject(raw, err)
	}
	if trace.FractionLimitHit {
		return nil, c.reject(raw, core.Invalid(core.ReasonFractionDepth,
			"fractions nested deeper than %d levels", c.fractionPasses))
	}

	ast, err := c.validator.Check(trace.Output)
	if err != nil {
		return nil, c.reject(raw, err)
	}

	ev, err := evaluator.Compile(ast, c.whitelist)
	if err != nil {
		return nil, c.reject(raw, err)
	}

	c.logger.Debug("compiled expression", "raw", raw, "canonical", trace.Output)
	return &Program{
		Raw:        raw,
		Normalized: normalized,
		Canonical:  trace.Output,
		Trace:      trace,
		Expr:       ast,
		Evaluator:  ev,
	}, nil
}

func (c *Compiler) reject(raw string, err error) error {
	c.logger.Debug("rejected expression", "raw", raw, "error", err)
	return err
}

var defaultCompiler = sync.OnceValue(func() *Compiler { return New() })

// Default returns the shared compiler built with the default whitelist.
func Default() *Compiler {
	return defaultCompiler()
}

// Compile compiles raw with the default compiler.
func Compile(raw string) (*Program, error) {
	return Default().Compile(raw)
}
