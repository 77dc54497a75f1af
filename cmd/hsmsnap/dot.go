package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mon-martins/hsmsnap"
	"github.com/mon-martins/hsmsnap/chartfile"
)

var dotActive []string

var dotCmd = &cobra.Command{
	Use:   "dot <chart.yaml>",
	Short: "Render a chart as Graphviz DOT",
	Long: `Prints the chart's structure as DOT source on stdout. With --active the
named leaves and all their ancestors render highlighted, the way a live
machine's configuration would.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDot(args[0], dotActive); err != nil {
			fmt.Printf("Rendering failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	dotCmd.Flags().StringSliceVar(&dotActive, "active", nil, "leaf states to highlight along with their ancestors")
	rootCmd.AddCommand(dotCmd)
}

func runDot(path string, activeLeaves []string) error {
	c, err := chartfile.LoadChart(path)
	if err != nil {
		return err
	}
	model, err := c.Compile()
	if err != nil {
		return err
	}

	var active []hsmsnap.StateID
	seen := map[hsmsnap.StateID]bool{}
	for _, leaf := range activeLeaves {
		chain, err := model.Tree().Ancestors(hsmsnap.StateID(leaf))
		if err != nil {
			return err
		}
		for _, id := range chain {
			if !seen[id] {
				seen[id] = true
				active = append(active, id)
			}
		}
	}

	fmt.Print(hsmsnap.ExportDOT(c, active))
	return nil
}
