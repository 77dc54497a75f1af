package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mon-martins/hsmsnap/chartfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <chart.yaml>",
	Short: "Check a chart definition for structural defects",
	Long: `Loads and compiles the chart, reporting the first defect found: duplicate
or missing IDs, broken parent links, bad initial states, or transitions
that target nothing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	c, err := chartfile.LoadChart(path)
	if err != nil {
		return err
	}
	model, err := c.Compile()
	if err != nil {
		return err
	}
	fmt.Printf("chart %q is valid: %d states, %d region(s)\n",
		c.ID, model.Tree().Len()-1, len(model.Regions()))
	return nil
}
