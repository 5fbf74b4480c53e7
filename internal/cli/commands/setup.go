package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapplot/internal/cli/config"
	"github.com/leapstack-labs/leapplot/internal/cli/output"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/leapstack-labs/leapplot/pkg/compiler"
	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Compiler *compiler.Compiler
	Renderer *output.Renderer
	// History is nil when history is disabled.
	History state.Store
}

// NewCommandContext creates a CommandContext with compiler, renderer and,
// when enabled, the history store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutHistory(cmd)
	if !cmdCtx.Cfg.History {
		return cmdCtx, func() {}, nil
	}

	store, err := state.OpenAndMigrate(cmdCtx.Cfg.StatePath, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.History = store

	cleanup := func() {
		_ = store.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutHistory creates a CommandContext without a history store.
// Useful for commands that don't record anything.
func NewCommandContextWithoutHistory(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Compiler: newCompiler(cfg, logger),
		Renderer: r,
	}
}

// Record stores a compile outcome in the history, if enabled. Failures
// are logged rather than returned so history never breaks a command.
func (c *CommandContext) Record(ctx context.Context, source state.Source, raw string, prog *compiler.Program, cerr error) {
	if c.History == nil {
		return
	}
	rec := &state.Record{Raw: raw, Valid: cerr == nil, Reason: core.ReasonOf(cerr), Source: source}
	if prog != nil {
		rec.Canonical = prog.Canonical
	}
	if cerr != nil {
		rec.Error = cerr.Error()
	}
	if err := c.History.RecordCompile(ctx, rec); err != nil {
		c.Logger.Warn("failed to record compile", "error", err)
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func newCompiler(cfg *config.Config, logger *slog.Logger) *compiler.Compiler {
	return compiler.New(
		compiler.WithLogger(logger),
		compiler.WithFractionPasses(cfg.Compiler.FractionPasses),
	)
}
