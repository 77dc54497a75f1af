package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mon-martins/hsmsnap"
	"github.com/mon-martins/hsmsnap/chartfile"
	"github.com/mon-martins/hsmsnap/internal/codegen"
)

var (
	genLayoutPath string
	genOutPath    string
	genPackage    string
)

var genCmd = &cobra.Command{
	Use:   "gen <chart.yaml>",
	Short: "Derive or extend a snapshot layout and emit its Go binding",
	Long: `Loads a chart, then derives a fresh snapshot layout or extends the one at
--layout: existing bit positions never move, new states get fresh bits.
The layout is written back with a content fingerprint as its version.

With --out and --package, gen also renders the Go binding: one bit
constant per state plus an accessor that folds a machine into its
snapshot word.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGen(args[0]); err != nil {
			fmt.Printf("Generation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	genCmd.Flags().StringVar(&genLayoutPath, "layout", "", "layout file to read and write (default: chart path with .layout.yaml)")
	genCmd.Flags().StringVar(&genOutPath, "out", "", "write the Go binding to this file")
	genCmd.Flags().StringVar(&genPackage, "package", "", "package name for the Go binding (required with --out)")
	rootCmd.AddCommand(genCmd)
}

func runGen(chartPath string) error {
	c, err := chartfile.LoadChart(chartPath)
	if err != nil {
		return err
	}
	model, err := c.Compile()
	if err != nil {
		return err
	}

	layoutPath := genLayoutPath
	if layoutPath == "" {
		layoutPath = strings.TrimSuffix(chartPath, filepath.Ext(chartPath)) + ".layout.yaml"
	}

	var layout *hsmsnap.Layout
	prev, err := chartfile.LoadLayout(layoutPath)
	switch {
	case err == nil:
		layout, err = hsmsnap.ExtendLayout(prev, model.Tree())
		if err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		layout, err = hsmsnap.DeriveLayout(model.Tree())
		if err != nil {
			return err
		}
	default:
		return err
	}

	layout.Version = chartfile.Fingerprint(layout)
	if err := chartfile.SaveLayout(layoutPath, layout); err != nil {
		return err
	}
	fmt.Printf("layout %s (version %s, %d states)\n", layoutPath, layout.Version, len(layout.Assignments))

	if genOutPath == "" {
		return nil
	}
	if genPackage == "" {
		return fmt.Errorf("--package is required with --out")
	}
	src, err := codegen.Generate(c, layout, codegen.Options{Package: genPackage})
	if err != nil {
		return err
	}
	if err := os.WriteFile(genOutPath, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", genOutPath, err)
	}
	fmt.Printf("binding %s (package %s)\n", genOutPath, genPackage)
	return nil
}
