package latex

import (
	"sync"

	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/mathlib"
)

// Stage names, in execution order.
const (
	StageFractions    = "fractions"
	StagePowers       = "powers"
	StageRoots        = "roots"
	StageExponentials = "exponentials"
	StageFunctions    = "functions"
	StageConstants    = "constants"
	StageImplicit     = "implicit_multiplication"
	StageCleanup      = "cleanup"
)

// Stage is one named rewrite step.
type Stage struct {
	Name  string
	Apply func(string) string
}

// Step records the output of one stage.
type Step struct {
	Stage  string `json:"stage"`
	Output string `json:"output"`
}

// Result is the outcome of a traced rewrite.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Steps  []Step `json:"steps"`
	// FractionLimitHit is set when fractions were nested deeper than the
	// pipeline's pass bound and some were left unflattened.
	FractionLimitHit bool `json:"fraction_limit_hit"`
}

// Changed returns the steps that modified their input.
func (r Result) Changed() []Step {
	var out []Step
	prev := r.Input
	for _, s := range r.Steps {
		if s.Output != prev {
			out = append(out, s)
		}
		prev = s.Output
	}
	return out
}

// Pipeline composes the rewrite stages in their fixed order.
// A Pipeline is immutable and safe for concurrent use.
type Pipeline struct {
	functions      core.FunctionWhitelist
	fractionPasses int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFractionPasses overrides MaxFractionPasses.
func WithFractionPasses(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.fractionPasses = n
		}
	}
}

// NewPipeline creates a pipeline that repairs calls against wl's functions.
func NewPipeline(wl core.Whitelist, opts ...Option) *Pipeline {
	p := &Pipeline{
		functions:      wl.Functions,
		fractionPasses: MaxFractionPasses,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FractionPasses returns the configured fraction pass bound.
func (p *Pipeline) FractionPasses() int {
	return p.fractionPasses
}

// Stages returns the stages in execution order. The fraction stage drops
// its limit flag; use Trace to observe it.
func (p *Pipeline) Stages() []Stage {
	return []Stage{
		{StageFractions, func(s string) string {
			out, _ := FlattenFractions(s, p.fractionPasses)
			return out
		}},
		{StagePowers, NormalizePowers},
		{StageRoots, RewriteRoots},
		{StageExponentials, FoldExponentials},
		{StageFunctions, MapFunctions},
		{StageConstants, SubstituteConstants},
		{StageImplicit, func(s string) string { return InsertImplicitMultiplication(s, p.functions) }},
		{StageCleanup, func(s string) string { return Cleanup(s, p.functions) }},
	}
}

// Rewrite runs every stage over expr and returns the canonical expression.
func (p *Pipeline) Rewrite(expr string) string {
	return p.Trace(expr).Output
}

// Trace runs every stage over expr and records each intermediate output.
func (p *Pipeline) Trace(expr string) Result {
	res := Result{Input: expr, Steps: make([]Step, 0, 8)}

	out, hit := FlattenFractions(expr, p.fractionPasses)
	res.FractionLimitHit = hit
	res.Steps = append(res.Steps, Step{Stage: StageFractions, Output: out})

	for _, st := range p.Stages()[1:] {
		out = st.Apply(out)
		res.Steps = append(res.Steps, Step{Stage: st.Name, Output: out})
	}
	res.Output = out
	return res
}

var defaultPipeline = sync.OnceValue(func() *Pipeline {
	return NewPipeline(mathlib.Default())
})

// Rewrite rewrites expr with the default whitelist.
func Rewrite(expr string) string {
	return defaultPipeline().Rewrite(expr)
}
