package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapplot/internal/examples"
	"github.com/leapstack-labs/leapplot/pkg/compiler"
	"github.com/leapstack-labs/leapplot/pkg/latex"
	"github.com/leapstack-labs/leapplot/pkg/mathlib"
	"github.com/leapstack-labs/leapplot/pkg/validate"
)

// generateNotationDocs generates the supported-notation reference page.
func generateNotationDocs(outDir string) error {
	log.Printf("Generating notation docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Supported Notation", "LaTeX commands, functions and constants LeapPlot accepts")
	w.GeneratedMarker()

	w.Header(1, "Supported Notation")
	w.Paragraph("Equations are rewritten into a small arithmetic language before evaluation. " +
		"Anything that does not resolve to one of the names below is rejected.")

	// LaTeX function commands
	w.Header(2, "Function Commands")
	var rows [][]string
	for _, name := range latex.FunctionCommands() {
		fc, _ := latex.LookupFunctionCommand(name)
		rewrite := fc.Canonical + "(x)"
		if fc.Reciprocal {
			rewrite = "(1/" + rewrite + ")"
		}
		rows = append(rows, []string{InlineCode(`\` + name + `(x)`), InlineCode(rewrite)})
	}
	w.Table([]string{"LaTeX", "Rewritten to"}, rows)

	// Constants and operators
	w.Header(2, "Constants and Operators")
	var cmds []string
	for _, name := range latex.ConstantCommands() {
		cmds = append(cmds, InlineCode(`\`+name))
	}
	w.BulletList(cmds)

	// Whitelist
	wl := mathlib.Default()
	w.Header(2, "Allowed Functions")
	var funcs []string
	for _, name := range wl.Functions.Names() {
		funcs = append(funcs, InlineCode(name))
	}
	w.BulletList(funcs)

	w.Header(2, "Allowed Constants")
	var consts []string
	for _, name := range wl.Constants.Names() {
		consts = append(consts, InlineCode(name))
	}
	w.BulletList(consts)

	// Denied input
	w.Header(2, "Denied Input")
	w.Paragraph("Input containing any of these substrings is rejected before parsing:")
	var denied []string
	for _, s := range validate.DeniedSubstrings() {
		denied = append(denied, InlineCode(s))
	}
	w.BulletList(denied)

	// Examples with their compiled form
	w.Header(2, "Examples")
	list, err := examples.Load()
	if err != nil {
		return fmt.Errorf("failed to load examples: %w", err)
	}
	c := compiler.New()
	rows = rows[:0]
	for _, ex := range list {
		prog, err := c.Compile(ex.Latex)
		if err != nil {
			return fmt.Errorf("example %q does not compile: %w", ex.Latex, err)
		}
		rows = append(rows, []string{ex.Description, InlineCode(ex.Latex), InlineCode(prog.Canonical)})
	}
	w.Table([]string{"Description", "LaTeX", "Canonical"}, rows)

	filename := filepath.Join(outDir, "notation.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated notation.md")
	return nil
}
