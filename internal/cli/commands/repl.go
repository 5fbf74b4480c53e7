package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/leapstack-labs/leapplot/pkg/format"
	"github.com/leapstack-labs/leapplot/pkg/latex"
	"github.com/leapstack-labs/leapplot/pkg/mathlib"
	"github.com/leapstack-labs/leapplot/pkg/validate"
	"github.com/spf13/cobra"
)

const replPrompt = "leapplot> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively compile equations",
		Long: `Start an interactive session. Each line is compiled and its canonical
form, value at x = 1 and (with .explain on) rewrite stages are printed.

Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

// replSession holds REPL state between lines.
type replSession struct {
	cmdCtx  *CommandContext
	out     io.Writer
	errOut  io.Writer
	explain bool
	at      float64
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Setup history file next to the state database
	historyFile := ""
	if cmdCtx.Cfg.History {
		historyFile = filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newCommandCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := &replSession{
		cmdCtx: cmdCtx,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		at:     1,
	}

	_, _ = fmt.Fprintln(session.out, "LeapPlot REPL")
	_, _ = fmt.Fprintln(session.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(session.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if quit := session.handle(cmd.Context(), line); quit {
			break
		}
	}

	return nil
}

// handle processes one input line and reports whether the session should end.
func (s *replSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	prog, err := s.cmdCtx.Compiler.Compile(line)
	s.cmdCtx.Record(ctx, state.SourceREPL, line, prog, err)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "✗ %s\n", validate.Describe(err))
		if s.explain {
			if _, trace, rerr := s.cmdCtx.Compiler.Rewrite(line); rerr == nil {
				s.printSteps(trace)
			}
		}
		return false
	}

	_, _ = fmt.Fprintf(s.out, "= %s\n", prog.Pretty())
	_, _ = fmt.Fprintf(s.out, "  f(%g) = %s\n", s.at, formatFloat(prog.Evaluator.EvalAt(s.at)))
	if s.explain {
		s.printSteps(prog.Trace)
		_, _ = fmt.Fprint(s.out, indent(format.Tree(prog.Expr)))
	}
	return false
}

func (s *replSession) printSteps(trace latex.Result) {
	for _, step := range trace.Changed() {
		_, _ = fmt.Fprintf(s.out, "  %-24s %s\n", step.Stage, step.Output)
	}
}

func indent(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".explain":
		switch {
		case len(parts) < 2:
			s.explain = !s.explain
		case parts[1] == "on":
			s.explain = true
		case parts[1] == "off":
			s.explain = false
		default:
			_, _ = fmt.Fprintln(s.errOut, "Usage: .explain [on|off]")
			return false
		}
		_, _ = fmt.Fprintf(s.out, "explain: %v\n", s.explain)

	case ".at":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .at <x>")
			return false
		}
		var x float64
		if _, err := fmt.Sscanf(parts[1], "%g", &x); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: invalid number %q\n", parts[1])
			return false
		}
		s.at = x
		_, _ = fmt.Fprintf(s.out, "evaluating at x = %g\n", x)

	case ".functions":
		_, _ = fmt.Fprintln(s.out, strings.Join(s.cmdCtx.Compiler.Whitelist().Functions.Names(), " "))

	case ".constants":
		_, _ = fmt.Fprintln(s.out, strings.Join(s.cmdCtx.Compiler.Whitelist().Constants.Names(), " "))

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// newCommandCompleter completes dot-commands and LaTeX function commands.
func newCommandCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".explain", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".at"),
		readline.PcItem(".functions"),
		readline.PcItem(".constants"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, name := range latex.FunctionCommands() {
		items = append(items, readline.PcItem(`\`+name))
	}
	for _, name := range mathlib.Default().Functions.Names() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .explain [on|off]  Show rewrite stages and the expression tree
  .at <x>            Evaluate results at x (default 1)
  .functions         List allowed functions
  .constants         List allowed constants
  .quit / .exit      Exit the REPL

Tips:
  - Enter any equation, e.g. y = \frac{\sin(x)}{x}
  - Use arrow keys to navigate history
  - Tab completes commands and \function names
`
	_, _ = fmt.Fprintln(w, help)
}
