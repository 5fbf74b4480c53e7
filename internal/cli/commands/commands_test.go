package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapplot/internal/cli/config"
	"github.com/leapstack-labs/leapplot/internal/cli/testutil"
	"github.com/leapstack-labs/leapplot/internal/sample"
	"github.com/leapstack-labs/leapplot/pkg/compiler"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandConstructors(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"parse", NewParseCommand(), "parse <latex>", []string{"explain"}},
		{"sample", NewSampleCommand(), "sample <latex>", []string{"x-min", "x-max", "points", "y-min", "y-max", "rows"}},
		{"examples", NewExamplesCommand(), "examples", nil},
		{"check", NewCheckCommand(), "check <file>", []string{"watch", "jobs"}},
		{"repl", NewREPLCommand(), "repl", nil},
		{"serve", NewServeCommand(), "serve", []string{"addr"}},
		{"history", NewHistoryCommand(), "history", []string{"limit", "clear"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestCommandExamples(t *testing.T) {
	for _, cmd := range []*cobra.Command{NewParseCommand(), NewSampleCommand(), NewCheckCommand(), NewHistoryCommand()} {
		assert.NotEmpty(t, cmd.Example, "%s should have examples", cmd.Name())
	}
}

// inProject changes into a fresh test project and loads its config.
func inProject(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return dir
}

// run executes cmd with args and returns stdout and stderr.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseCommand_Markdown(t *testing.T) {
	inProject(t)

	out, _, err := run(t, NewParseCommand(), "--explain", `y = \frac{1}{x}`)
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# Equation")
	assert.Contains(t, out, "((1)/(x))")
	assert.Contains(t, out, "## Rewrite stages")
	assert.Contains(t, out, "## Expression tree")
	assert.Contains(t, out, "**Constant:** false")
}

func TestParseCommand_Rejected(t *testing.T) {
	inProject(t)

	out, _, err := run(t, NewParseCommand(), "__import__")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equation rejected")
	assert.Contains(t, out, "**Valid:** false")
}

func TestBuildParseResult(t *testing.T) {
	c := compiler.New()

	t.Run("valid", func(t *testing.T) {
		prog, err := c.Compile("x^2")
		require.NoError(t, err)

		res := buildParseResult(c, "  x^2 ", prog, nil, true)
		assert.True(t, res.Valid)
		assert.Equal(t, "x^2", res.Latex)
		assert.Equal(t, "x**2", res.Canonical)
		require.NotNil(t, res.Probe)
		assert.InDelta(t, 1.0, *res.Probe, 1e-12)
		assert.NotEmpty(t, res.Steps)
		assert.NotEmpty(t, res.Tree)
		assert.False(t, res.Constant)
	})

	t.Run("constant", func(t *testing.T) {
		prog, err := c.Compile(`\frac12 + \pi`)
		require.NoError(t, err)

		res := buildParseResult(c, `\frac12 + \pi`, prog, nil, false)
		assert.True(t, res.Constant)
		require.NotNil(t, res.Probe)
		assert.InDelta(t, 0.5+math.Pi, *res.Probe, 1e-12)
	})

	t.Run("undefined at sample point", func(t *testing.T) {
		prog, err := c.Compile(`\ln(x - 1)`)
		require.NoError(t, err)

		res := buildParseResult(c, `\ln(x - 1)`, prog, nil, false)
		assert.True(t, res.Valid)
		assert.Nil(t, res.Probe)
		assert.Equal(t, "NaN", formatProbe(res.Probe))
		assert.Empty(t, res.Steps)
	})

	t.Run("rejected", func(t *testing.T) {
		prog, err := c.Compile("eval(x)")
		require.Error(t, err)

		res := buildParseResult(c, "eval(x)", prog, err, false)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.Reason)
		assert.NotEmpty(t, res.Error)
		assert.Empty(t, res.Canonical)
	})
}

func TestSampleCommand_JSON(t *testing.T) {
	inProject(t)

	cmd := NewSampleCommand()
	config.GetCurrentConfig().OutputFormat = "json"
	out, _, err := run(t, cmd, "--x-min", "-50", "--x-max", "50", "--points", "101", `\frac{1}{x}`)
	require.NoError(t, err)

	var res SampleResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.X, 101)
	require.Len(t, res.Y, 101)
	assert.Equal(t, 0.0, res.X[50])
	assert.Nil(t, res.Y[50], "pole should be null")
	require.NotNil(t, res.Y[0])
	assert.InDelta(t, -0.02, *res.Y[0], 1e-12)
	assert.Equal(t, 100, res.Finite)
}

func TestSampleCommand_InvalidRange(t *testing.T) {
	inProject(t)

	_, _, err := run(t, NewSampleCommand(), "--x-min", "5", "--x-max", "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x_min")
}

func TestSampleCommand_NoValidSamples(t *testing.T) {
	inProject(t)

	_, _, err := run(t, NewSampleCommand(), "--x-min", "-5", "--x-max", "-1", `\sqrt{x}`)
	require.ErrorIs(t, err, sample.ErrNoValidSamples)
}

func TestSampleRange_UsesConfiguredDefaults(t *testing.T) {
	inProject(t)

	cmd := NewSampleCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--x-max", "3"}))

	opts := &SampleOptions{XMax: 3}
	rng := sampleRange(cmd, opts, sample.DefaultRange(config.GetCurrentConfig().Sampling))
	assert.Equal(t, 3.0, rng.XMax)
	assert.Equal(t, 100, rng.Points, "points come from leapplot.yaml")
	assert.Nil(t, rng.YMin)
}

func TestSampleRows(t *testing.T) {
	s := &sample.Series{X: sample.Linspace(0, 100, 101), Y: make([]float64, 101)}

	rows := sampleRows(s, 20)
	require.Len(t, rows, 20)
	assert.Equal(t, "0", rows[0][0])
	assert.Equal(t, "100", rows[19][0])

	assert.Len(t, sampleRows(s, 0), 101)
	assert.Len(t, sampleRows(s, 500), 101)
}

func TestExamplesCommand(t *testing.T) {
	inProject(t)

	out, _, err := run(t, NewExamplesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Parabola")
	assert.Contains(t, out, "x**2")
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eqs.txt")
	require.NoError(t, os.WriteFile(path, []byte("x^2\n\n# comment\nimport os\n\\sin(x)\n"), 0o600))

	report, err := CheckFile(context.Background(), compiler.New(), path, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Invalid)
	require.Len(t, report.Lines, 3)

	assert.Equal(t, 1, report.Lines[0].Line)
	assert.True(t, report.Lines[0].Valid)
	assert.Equal(t, "x**2", report.Lines[0].Canonical)

	assert.Equal(t, 4, report.Lines[1].Line)
	assert.False(t, report.Lines[1].Valid)
	assert.NotEmpty(t, report.Lines[1].Reason)

	assert.Equal(t, 5, report.Lines[2].Line)
	assert.Equal(t, "sin(x)", report.Lines[2].Canonical)
}

func TestCheckFile_Missing(t *testing.T) {
	_, err := CheckFile(context.Background(), compiler.New(), filepath.Join(t.TempDir(), "nope.txt"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

func TestCheckCommand(t *testing.T) {
	dir := inProject(t)

	out, _, err := run(t, NewCheckCommand(), "equations.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "# Check: equations.txt")
	assert.Contains(t, out, "3 equations, 0 rejected")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("x\nexec(x)\n"), 0o600))
	_, _, err = run(t, NewCheckCommand(), "bad.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 equations rejected")
}

func TestHistoryCommand(t *testing.T) {
	inProject(t)

	_, _, err := run(t, NewParseCommand(), "x^2")
	require.NoError(t, err)
	_, _, err = run(t, NewParseCommand(), "eval(x)")
	require.Error(t, err)

	out, _, err := run(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "History (2 entries)")
	assert.Contains(t, out, "x**2")
	assert.Contains(t, out, "rejected:")

	out, _, err = run(t, NewHistoryCommand(), "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 history entries")

	out, _, err = run(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "History (0 entries)")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	inProject(t)
	config.GetCurrentConfig().History = false

	_, _, err := run(t, NewHistoryCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}

func newTestSession() (*replSession, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cfg := config.Default()
	cmdCtx := &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(context.Background()),
		Compiler: compiler.New(),
	}
	return &replSession{cmdCtx: cmdCtx, out: &out, errOut: &errOut, at: 1}, &out, &errOut
}

func TestREPLSession_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("equation", func(t *testing.T) {
		s, out, _ := newTestSession()
		assert.False(t, s.handle(ctx, "y = x^2 + 1"))
		assert.Contains(t, out.String(), "f(1) = 2")
	})

	t.Run("evaluation point", func(t *testing.T) {
		s, out, _ := newTestSession()
		s.handle(ctx, ".at 3")
		s.handle(ctx, "x^2")
		assert.Contains(t, out.String(), "evaluating at x = 3")
		assert.Contains(t, out.String(), "f(3) = 9")
	})

	t.Run("undefined value", func(t *testing.T) {
		s, out, _ := newTestSession()
		s.handle(ctx, ".at 0")
		s.handle(ctx, `\frac{1}{x}`)
		assert.Contains(t, out.String(), "f(0) = NaN")
	})

	t.Run("rejected", func(t *testing.T) {
		s, out, errOut := newTestSession()
		assert.False(t, s.handle(ctx, "import os"))
		assert.Contains(t, errOut.String(), "✗")
		assert.Empty(t, out.String())
	})

	t.Run("explain", func(t *testing.T) {
		s, out, _ := newTestSession()
		s.handle(ctx, ".explain on")
		s.handle(ctx, `\sqrt{x}`)
		assert.True(t, s.explain)
		assert.Contains(t, out.String(), "sqrt(x)")
	})

	t.Run("quit", func(t *testing.T) {
		s, _, _ := newTestSession()
		assert.True(t, s.handle(ctx, ".quit"))
		assert.True(t, s.handle(ctx, ".exit"))
	})

	t.Run("blank", func(t *testing.T) {
		s, out, errOut := newTestSession()
		assert.False(t, s.handle(ctx, "   "))
		assert.Empty(t, out.String())
		assert.Empty(t, errOut.String())
	})
}

func TestREPLSession_DotCommands(t *testing.T) {
	tests := []struct {
		line    string
		wantOut string
		wantErr string
	}{
		{line: ".help", wantOut: ".explain [on|off]"},
		{line: ".functions", wantOut: "sin"},
		{line: ".constants", wantOut: "pi"},
		{line: ".explain maybe", wantErr: "Usage: .explain"},
		{line: ".at", wantErr: "Usage: .at"},
		{line: ".at abc", wantErr: "invalid number"},
		{line: ".bogus", wantErr: "Unknown command: .bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, out, errOut := newTestSession()
			assert.False(t, s.handleDotCommand(tt.line))
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "NaN", formatFloat(math.NaN()))
	assert.Equal(t, "0.5", formatFloat(0.5))
	assert.Equal(t, "3.1415927", formatFloat(math.Pi))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b\n", indent("a\nb\n"))
	assert.True(t, strings.HasPrefix(indent("x"), "  "))
}
