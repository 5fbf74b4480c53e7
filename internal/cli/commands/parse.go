package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapplot/internal/cli/output"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/leapstack-labs/leapplot/pkg/compiler"
	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/format"
	"github.com/leapstack-labs/leapplot/pkg/latex"
	"github.com/leapstack-labs/leapplot/pkg/validate"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Explain bool
}

// ParseResult is the JSON shape of the parse command.
type ParseResult struct {
	Latex      string       `json:"latex"`
	Valid      bool         `json:"valid"`
	Normalized string       `json:"normalized,omitempty"`
	Canonical  string       `json:"canonical,omitempty"`
	Pretty     string       `json:"pretty,omitempty"`
	Probe      *float64     `json:"probe,omitempty"`
	Constant   bool         `json:"constant,omitempty"`
	Error      string       `json:"error,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	Steps      []latex.Step `json:"steps,omitempty"`
	Tree       string       `json:"tree,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <latex>",
		Short: "Compile an equation and show its canonical form",
		Long: `Compile a LaTeX-style equation into the restricted arithmetic language
and report whether it is safe to evaluate.

A leading "y =", "f(x) =" or "\displaystyle" is removed before compiling.
Rejected input prints the rejection reason and exits non-zero.`,
		Example: `  # Compile an equation
  leapplot parse 'y = \frac{\sin(x)}{x}'

  # Show every rewrite stage and the expression tree
  leapplot parse --explain 'e^{-x^2}'

  # JSON for scripts
  leapplot parse -o json '2\pi x'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Show each rewrite stage and the expression tree")

	return cmd
}

func runParse(cmd *cobra.Command, raw string, opts *ParseOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	prog, cerr := cmdCtx.Compiler.Compile(raw)
	cmdCtx.Record(cmd.Context(), state.SourceCLI, raw, prog, cerr)

	result := buildParseResult(cmdCtx.Compiler, raw, prog, cerr, opts.Explain)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(result); err != nil {
			return err
		}
	case output.ModeMarkdown:
		parseMarkdown(r, result)
	default:
		parseText(r, result)
	}

	if cerr != nil {
		return fmt.Errorf("equation rejected: %s", result.Reason)
	}
	return nil
}

func buildParseResult(c *compiler.Compiler, raw string, prog *compiler.Program, cerr error, explain bool) ParseResult {
	res := ParseResult{Latex: strings.TrimSpace(raw), Valid: cerr == nil}
	if cerr != nil {
		res.Error = validate.Describe(cerr)
		res.Reason = core.ReasonOf(cerr)
		// Rejected input can still show how far the rewrite got.
		if explain {
			if normalized, trace, err := c.Rewrite(raw); err == nil {
				res.Normalized = normalized
				res.Steps = trace.Steps
			}
		}
		return res
	}

	res.Normalized = prog.Normalized
	res.Canonical = prog.Canonical
	res.Pretty = prog.Pretty()
	if y, ok := prog.Probe(); ok {
		res.Probe = &y
	}
	_, res.Constant = prog.Evaluator.Constant()
	if explain {
		res.Steps = prog.Trace.Steps
		res.Tree = format.Tree(prog.Expr)
	}
	return res
}

func formatProbe(p *float64) string {
	if p == nil {
		return "NaN"
	}
	return strconv.FormatFloat(*p, 'g', 10, 64)
}

func parseText(r *output.Renderer, res ParseResult) {
	styles := r.Styles()
	if !res.Valid {
		r.Println(styles.Error.Render("✗ rejected") + " " + styles.Muted.Render("("+res.Reason+")"))
		r.Printf("  %s\n", res.Error)
	} else {
		r.Println(styles.Success.Render("✓ " + res.Canonical))
		r.KeyValue("pretty", res.Pretty)
		r.KeyValue(fmt.Sprintf("f(%g)", compiler.ProbeX), formatProbe(res.Probe))
		if res.Constant {
			r.Muted("constant: does not depend on x")
		}
	}

	if len(res.Steps) > 0 {
		r.Println()
		r.Header(2, "Rewrite stages")
		r.KeyValue("input", res.Normalized)
		for _, s := range res.Steps {
			r.KeyValue(s.Stage, s.Output)
		}
	}
	if res.Tree != "" {
		r.Println()
		r.Header(2, "Expression tree")
		r.Println(strings.TrimRight(res.Tree, "\n"))
	}
}

func parseMarkdown(r *output.Renderer, res ParseResult) {
	r.Println(output.FormatHeader(1, "Equation"))
	r.Println()
	r.Println(output.FormatKeyValue("Input", output.FormatCode(res.Latex)))
	r.Println(output.FormatKeyValue("Valid", strconv.FormatBool(res.Valid)))
	if !res.Valid {
		r.Println(output.FormatKeyValue("Reason", res.Reason))
		r.Println(output.FormatKeyValue("Error", res.Error))
	} else {
		r.Println(output.FormatKeyValue("Canonical", output.FormatCode(res.Canonical)))
		r.Println(output.FormatKeyValue("Pretty", output.FormatCode(res.Pretty)))
		r.Println(output.FormatKeyValue(fmt.Sprintf("f(%g)", compiler.ProbeX), formatProbe(res.Probe)))
		r.Println(output.FormatKeyValue("Constant", strconv.FormatBool(res.Constant)))
	}

	if len(res.Steps) > 0 {
		r.Println()
		r.Println(output.FormatHeader(2, "Rewrite stages"))
		r.Println()
		rows := [][]string{{"input", res.Normalized}}
		for _, s := range res.Steps {
			rows = append(rows, []string{s.Stage, s.Output})
		}
		r.Table([]string{"Stage", "Output"}, rows)
	}
	if res.Tree != "" {
		r.Println()
		r.Println(output.FormatHeader(2, "Expression tree"))
		r.Println()
		r.Println(output.FormatCodeBlock("text", res.Tree))
	}
}
