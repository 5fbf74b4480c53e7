package commands

import (
	"fmt"
	"math"
	"strconv"

	"github.com/leapstack-labs/leapplot/internal/cli/output"
	"github.com/leapstack-labs/leapplot/internal/sample"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/spf13/cobra"
)

// SampleOptions holds options for the sample command.
type SampleOptions struct {
	XMin   float64
	XMax   float64
	Points int
	YMin   float64
	YMax   float64
	// Rows limits how many rows text and markdown output print.
	Rows int
}

// SampleResult is the JSON shape of the sample command. NaN is null.
type SampleResult struct {
	Latex     string     `json:"latex"`
	Canonical string     `json:"canonical"`
	X         []float64  `json:"x"`
	Y         []*float64 `json:"y"`
	YMin      float64    `json:"y_min"`
	YMax      float64    `json:"y_max"`
	Finite    int        `json:"finite"`
}

// NewSampleCommand creates the sample command.
func NewSampleCommand() *cobra.Command {
	opts := &SampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample <latex>",
		Short: "Evaluate an equation over an x range",
		Long: `Compile an equation and evaluate it at evenly spaced points.

Points where the function is undefined are reported as NaN (null in JSON).
The y range is derived from the finite values with a 10% margin, clamped
to ±1000, unless --y-min/--y-max are given. Range defaults come from the
sampling section of leapplot.yaml.`,
		Example: `  # Sample with configured defaults
  leapplot sample '\sin(x)'

  # Custom range as JSON
  leapplot sample -o json --x-min 0 --x-max 6.28 --points 200 '\sin(x)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.XMin, "x-min", 0, "Lower x bound (default from config)")
	cmd.Flags().Float64Var(&opts.XMax, "x-max", 0, "Upper x bound (default from config)")
	cmd.Flags().IntVar(&opts.Points, "points", 0, "Number of sample points (default from config)")
	cmd.Flags().Float64Var(&opts.YMin, "y-min", 0, "Fixed lower y limit")
	cmd.Flags().Float64Var(&opts.YMax, "y-max", 0, "Fixed upper y limit")
	cmd.Flags().IntVar(&opts.Rows, "rows", 20, "Rows to print in text and markdown output (0 for all)")

	return cmd
}

// sampleRange merges explicitly set flags over the configured defaults.
func sampleRange(cmd *cobra.Command, opts *SampleOptions, base sample.Range) sample.Range {
	flags := cmd.Flags()
	if flags.Changed("x-min") {
		base.XMin = opts.XMin
	}
	if flags.Changed("x-max") {
		base.XMax = opts.XMax
	}
	if flags.Changed("points") {
		base.Points = opts.Points
	}
	if flags.Changed("y-min") {
		base.YMin = &opts.YMin
	}
	if flags.Changed("y-max") {
		base.YMax = &opts.YMax
	}
	return base
}

func runSample(cmd *cobra.Command, raw string, opts *SampleOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rng := sampleRange(cmd, opts, sample.DefaultRange(cmdCtx.Cfg.Sampling))
	if err := rng.Validate(cmdCtx.Cfg.Sampling); err != nil {
		return err
	}

	prog, cerr := cmdCtx.Compiler.Compile(raw)
	cmdCtx.Record(cmd.Context(), state.SourceCLI, raw, prog, cerr)
	if cerr != nil {
		return cerr
	}

	series, err := sample.Sample(prog, rng)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("sampled equation", "points", len(series.X), "finite", series.Finite)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		ys := make([]*float64, len(series.Y))
		for i := range series.Y {
			if !math.IsNaN(series.Y[i]) {
				ys[i] = &series.Y[i]
			}
		}
		return r.JSON(SampleResult{
			Latex:     raw,
			Canonical: prog.Canonical,
			X:         series.X,
			Y:         ys,
			YMin:      series.YMin,
			YMax:      series.YMax,
			Finite:    series.Finite,
		})
	}

	r.Header(1, "y = "+prog.Pretty())
	r.KeyValue("Range", fmt.Sprintf("x ∈ [%g, %g], %d points", rng.XMin, rng.XMax, rng.Points))
	r.KeyValue("Y limits", fmt.Sprintf("[%s, %s]", formatFloat(series.YMin), formatFloat(series.YMax)))
	r.KeyValue("Finite", fmt.Sprintf("%d of %d", series.Finite, len(series.Y)))
	r.Println()

	rows := sampleRows(series, opts.Rows)
	r.Table([]string{"x", "y"}, rows)
	if len(rows) < len(series.X) {
		r.Muted(fmt.Sprintf("showing %d of %d points (use --rows 0 for all)", len(rows), len(series.X)))
	}
	return nil
}

// sampleRows picks up to limit evenly spread rows, always including both ends.
func sampleRows(s *sample.Series, limit int) [][]string {
	n := len(s.X)
	if limit <= 0 || limit >= n {
		limit = n
	}
	rows := make([][]string, 0, limit)
	for i := 0; i < limit; i++ {
		idx := i
		if limit < n && limit > 1 {
			idx = i * (n - 1) / (limit - 1)
		}
		rows = append(rows, []string{formatFloat(s.X[idx]), formatFloat(s.Y[idx])})
	}
	return rows
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 8, 64)
}
