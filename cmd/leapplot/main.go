// Package main provides the CLI for the LeapPlot equation compiler.
package main

import (
	"os"

	"github.com/leapstack-labs/leapplot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
