package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapplot/internal/cli/output"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/leapstack-labs/leapplot/pkg/compiler"
	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/validate"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchDebounce coalesces bursts of write events from editors.
const watchDebounce = 100 * time.Millisecond

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
	Jobs  int
}

// CheckLine is the outcome for one equation in the file.
type CheckLine struct {
	Line      int    `json:"line"`
	Latex     string `json:"latex"`
	Valid     bool   `json:"valid"`
	Canonical string `json:"canonical,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CheckReport is the result of checking a file.
type CheckReport struct {
	File    string      `json:"file"`
	Total   int         `json:"total"`
	Invalid int         `json:"invalid"`
	Lines   []CheckLine `json:"lines"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate every equation in a file",
		Long: `Compile each non-empty line of a file as an equation. Lines starting
with # are comments. Equations are compiled concurrently; the command fails
if any line is rejected.

With --watch the file is re-checked whenever it changes.`,
		Example: `  # Check a file once
  leapplot check equations.txt

  # Re-check on every save
  leapplot check --watch equations.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check the file when it changes")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Maximum concurrent compiles")

	return cmd
}

func runCheck(cmd *cobra.Command, path string, opts *CheckOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := checkAndRender(cmd.Context(), cmdCtx, path, opts.Jobs)
	if !opts.Watch {
		if err != nil {
			return err
		}
		if report.Invalid > 0 {
			return fmt.Errorf("%d of %d equations rejected", report.Invalid, report.Total)
		}
		return nil
	}
	if err != nil {
		cmdCtx.Renderer.Error(err.Error())
	}
	return watchFile(cmd.Context(), cmdCtx, path, opts.Jobs)
}

func checkAndRender(ctx context.Context, cmdCtx *CommandContext, path string, jobs int) (*CheckReport, error) {
	report, err := CheckFile(ctx, cmdCtx.Compiler, path, jobs)
	if err != nil {
		return nil, err
	}
	for _, line := range report.Lines {
		cmdCtx.recordLine(ctx, line)
	}
	return report, renderCheck(cmdCtx.Renderer, report)
}

func (c *CommandContext) recordLine(ctx context.Context, line CheckLine) {
	if c.History == nil {
		return
	}
	rec := &state.Record{
		Raw:       line.Latex,
		Canonical: line.Canonical,
		Valid:     line.Valid,
		Reason:    line.Reason,
		Error:     line.Error,
		Source:    state.SourceCLI,
	}
	if err := c.History.RecordCompile(ctx, rec); err != nil {
		c.Logger.Warn("failed to record compile", "error", err, "line", line.Line)
	}
}

// CheckFile compiles every equation in path using up to jobs goroutines.
// Results keep file order.
func CheckFile(ctx context.Context, c *compiler.Compiler, path string, jobs int) (*CheckReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []CheckLine
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, CheckLine{Line: n, Latex: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, jobs))
	for i := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prog, err := c.Compile(lines[i].Latex)
			if err != nil {
				lines[i].Reason = core.ReasonOf(err)
				lines[i].Error = validate.Describe(err)
				return nil
			}
			lines[i].Valid = true
			lines[i].Canonical = prog.Canonical
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &CheckReport{File: path, Total: len(lines), Lines: lines}
	for _, l := range lines {
		if !l.Valid {
			report.Invalid++
		}
	}
	return report, nil
}

func renderCheck(r *output.Renderer, report *CheckReport) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Check: "+filepath.Base(report.File)))
		r.Println()
		rows := make([][]string, 0, len(report.Lines))
		for _, l := range report.Lines {
			result := l.Canonical
			if !l.Valid {
				result = "rejected: " + l.Reason
			}
			rows = append(rows, []string{fmt.Sprint(l.Line), l.Latex, result})
		}
		r.Table([]string{"Line", "LaTeX", "Result"}, rows)
		r.Println()
	default:
		r.Header(1, "Checking "+report.File)
		for _, l := range report.Lines {
			name := fmt.Sprintf("%d: %s", l.Line, l.Latex)
			if l.Valid {
				r.StatusLine(name, "success", l.Canonical)
			} else {
				r.StatusLine(name, "failed", l.Error)
			}
		}
	}

	summary := fmt.Sprintf("%d equations, %d rejected", report.Total, report.Invalid)
	if report.Invalid == 0 {
		r.Success(summary)
	} else {
		r.Muted(summary)
	}
	return nil
}

// watchFile re-checks path after it changes until ctx is cancelled.
func watchFile(ctx context.Context, cmdCtx *CommandContext, path string, jobs int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file on save.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	cmdCtx.Renderer.Muted("watching " + path + " for changes (Ctrl+C to stop)")

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			cmdCtx.Logger.Debug("file changed, re-checking", "file", path)
			if _, err := checkAndRender(ctx, cmdCtx, path, jobs); err != nil {
				cmdCtx.Renderer.Error(err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}
