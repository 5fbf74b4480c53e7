package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/leapplot/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/leapplot/internal/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Description string
	Category    string // "general", "sampling", "server", "compiler"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go and internal/config/types.go.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "output", Type: "string", Description: "Output format: auto, text, markdown, json", Category: "general"},
		{Name: "log_level", Type: "string", Description: "Log level: debug, info, warn, error", Category: "general"},
		{Name: "verbose", Type: "bool", Description: "Verbose output (forces debug logging)", Category: "general"},
		{Name: "state_path", Type: "string", Description: "History database path, relative to the config file", Category: "general"},
		{Name: "history", Type: "bool", Description: "Record compiled equations in the history database", Category: "general"},

		{Name: "sampling.x_min", Type: "float", Description: "Default lower x bound", Category: "sampling"},
		{Name: "sampling.x_max", Type: "float", Description: "Default upper x bound", Category: "sampling"},
		{Name: "sampling.points", Type: "int", Description: "Default number of sample points", Category: "sampling"},
		{Name: "sampling.min_points", Type: "int", Description: "Smallest accepted num_points", Category: "sampling"},
		{Name: "sampling.max_points", Type: "int", Description: "Largest accepted num_points", Category: "sampling"},

		{Name: "server.addr", Type: "string", Description: "HTTP listen address", Category: "server"},
		{Name: "server.read_header_timeout", Type: "duration", Description: "Time allowed to read request headers", Category: "server"},
		{Name: "server.shutdown_timeout", Type: "duration", Description: "Grace period for in-flight requests on shutdown", Category: "server"},
		{Name: "server.metrics", Type: "bool", Description: "Expose /debug/metrics", Category: "server"},

		{Name: "compiler.fraction_passes", Type: "int", Description: `Maximum \frac nesting depth`, Category: "compiler"},
	}
}

// defaultValues merges the shared defaults with the CLI defaults.
func defaultValues() map[string]string {
	out := make(map[string]string)
	for k, v := range sharedcfg.DefaultsMap() {
		out[k] = fmt.Sprint(v)
	}
	d := config.Default()
	out["output"] = d.OutputFormat
	out["log_level"] = config.DefaultLogLevel
	out["verbose"] = strconv.FormatBool(d.Verbose)
	out["state_path"] = d.StatePath
	out["history"] = strconv.FormatBool(d.History)
	return out
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "LeapPlot configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("LeapPlot reads leapplot.yaml (or leapplot.yml) from the current directory or the nearest parent. " +
		"Values are layered: defaults, then the config file, then LEAPPLOT_ environment variables, then command-line flags.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `output: text
log_level: info
state_path: .leapplot/history.db

sampling:
  x_min: -6.28
  x_max: 6.28
  points: 800

server:
  addr: 127.0.0.1:8090
  shutdown_timeout: 5s`)

	defaults := defaultValues()
	sections := []struct {
		category string
		title    string
	}{
		{"general", "General"},
		{"sampling", "Sampling"},
		{"server", "Server"},
		{"compiler", "Compiler"},
	}
	for _, sec := range sections {
		w.Header(2, sec.title)
		var rows [][]string
		for _, f := range getConfigSchema() {
			if f.Category != sec.category {
				continue
			}
			def := defaults[f.Name]
			if def != "" {
				def = InlineCode(def)
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
		}
		w.Table([]string{"Key", "Type", "Default", "Description"}, rows)
	}

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
