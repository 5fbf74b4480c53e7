package commands

import (
	"github.com/leapstack-labs/leapplot/internal/cli/output"
	"github.com/leapstack-labs/leapplot/internal/examples"
	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/spf13/cobra"
)

// ExampleResult pairs a catalog entry with its compiled form.
type ExampleResult struct {
	examples.Example
	Canonical string `json:"canonical,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// NewExamplesCommand creates the examples command.
func NewExamplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List built-in example equations",
		Long:  `List the built-in example equations together with their canonical form.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExamples(cmd)
		},
	}
}

func runExamples(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutHistory(cmd)

	list, err := examples.Load()
	if err != nil {
		return err
	}

	results := make([]ExampleResult, 0, len(list))
	for _, ex := range list {
		res := ExampleResult{Example: ex}
		prog, err := cmdCtx.Compiler.Compile(ex.Latex)
		if err != nil {
			res.Reason = core.ReasonOf(err)
		} else {
			res.Canonical = prog.Canonical
		}
		results = append(results, res)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(results)
	}

	r.Header(1, "Examples")
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		compiled := res.Canonical
		if compiled == "" {
			compiled = "rejected: " + res.Reason
		}
		rows = append(rows, []string{res.Description, res.Latex, compiled})
	}
	r.Table([]string{"Description", "LaTeX", "Canonical"}, rows)
	return nil
}
