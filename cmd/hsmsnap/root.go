package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hsmsnap",
	Short: "hsmsnap inspects statechart definitions and snapshot layouts",
	Long: `hsmsnap works with chart definitions (YAML) and their snapshot bit
layouts: validate checks a chart for structural defects, gen derives or
extends a layout and emits the Go binding, dot renders the chart for
Graphviz.`,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
