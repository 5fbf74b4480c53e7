// Package main provides a generator that extracts CLI, configuration and
// notation metadata from LeapPlot source code and generates markdown documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=notation -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, notation, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps each -gen value to its default subdirectory under docs/.
var generators = []struct {
	name   string
	subdir string
	run    func(outDir string) error
}{
	{"cli", "cli", generateCLIDocs},
	{"config", "reference", generateConfigDocs},
	{"notation", "reference", generateNotationDocs},
}

func main() {
	flag.Parse()

	// Validate gen flag
	valid := *genFlag == "all"
	for _, g := range generators {
		if g.name == *genFlag {
			valid = true
		}
	}
	if !valid {
		log.Fatalf("unknown -gen value: %s (use: cli, config, notation, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	log.Printf("Project root: %s", projectRoot)

	for _, g := range generators {
		if *genFlag != "all" && *genFlag != g.name {
			continue
		}
		outDir := *outDirFlag
		if outDir == "" || *genFlag == "all" {
			outDir = filepath.Join(projectRoot, "docs", g.subdir)
		}
		if err := g.run(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", g.name, err)
		}
	}

	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
