package main

import (
	"cmp"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapplot/internal/cli"
	"github.com/leapstack-labs/leapplot/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes index.md plus one page per documented command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range documented(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), body, 0600); err != nil {
			return err
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documented returns the visible subcommands of root.
func documented(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for LeapPlot")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapplot/cmd/leapplot@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, InlineCode(cmd.UseLine()), cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Usage", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can also be set from the environment. " +
		"Flags override the environment, which overrides leapplot.yaml.")
	w.Table([]string{"Variable", "Key", "Default"}, envRows())

	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	w.Paragraph(cmp.Or(cmd.Long, cmd.Short))
	w.CodeBlock("bash", cmd.UseLine())

	if local := flagRows(cmd.LocalNonPersistentFlags()); len(local) > 0 {
		w.Header(2, "Options")
		w.Table(flagHeaders, local)
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w.Bytes()
}

var flagHeaders = []string{"Option", "Default", "Description"}

// flagRows lists visible flags as `--name, -s` with their defaults.
func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		option := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			option += ", " + InlineCode("-"+f.Shorthand)
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "[]" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{option, def, cleanDescription(f.Usage)})
	})
	return rows
}

// envVar maps a koanf key to the variable the config loader reads it from.
func envVar(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func envRows() [][]string {
	defaults := defaultValues()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{InlineCode(envVar(k)), InlineCode(k), InlineCode(defaults[k])})
	}
	return rows
}

// cleanExample strips the two-space indent cobra examples are written with.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.Join(lines, "\n")
}
