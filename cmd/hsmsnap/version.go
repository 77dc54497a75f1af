package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mon-martins/hsmsnap"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hsmsnap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hsmsnap version %s\n", strings.TrimSpace(hsmsnap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
