package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapplot/internal/cli/output"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	Clear bool
}

// HistoryEntry is the JSON shape of one history row.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Latex     string    `json:"latex"`
	Canonical string    `json:"canonical,omitempty"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently compiled equations",
		Long: `Show equations recently compiled by the CLI, the REPL and the HTTP server,
newest first. History lives in the SQLite database at state_path.`,
		Example: `  # Last 20 compiles
  leapplot history

  # Everything as JSON
  leapplot history --limit 1000 -o json

  # Forget everything
  leapplot history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", state.DefaultListLimit, "Maximum entries to show")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all history")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if cmdCtx.History == nil {
		return fmt.Errorf("history is disabled (remove --no-history or set history: true)")
	}
	r := cmdCtx.Renderer

	if opts.Clear {
		n, err := cmdCtx.History.Clear(cmd.Context())
		if err != nil {
			return err
		}
		r.Success(fmt.Sprintf("Deleted %d history entries", n))
		return nil
	}

	records, err := cmdCtx.History.ListRecent(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		entries := make([]HistoryEntry, 0, len(records))
		for _, rec := range records {
			entries = append(entries, HistoryEntry{
				ID:        rec.ID,
				Latex:     rec.Raw,
				Canonical: rec.Canonical,
				Valid:     rec.Valid,
				Reason:    rec.Reason,
				Source:    string(rec.Source),
				CreatedAt: rec.CreatedAt,
			})
		}
		return r.JSON(entries)
	}

	r.Header(1, fmt.Sprintf("History (%d entries)", len(records)))
	if len(records) == 0 {
		r.Muted("no equations compiled yet")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		result := rec.Canonical
		if !rec.Valid {
			result = "rejected: " + rec.Reason
		}
		rows = append(rows, []string{
			rec.CreatedAt.Local().Format(time.DateTime),
			string(rec.Source),
			rec.Raw,
			result,
			strconv.FormatBool(rec.Valid),
		})
	}
	r.Table([]string{"When", "Source", "LaTeX", "Result", "Valid"}, rows)
	return nil
}
