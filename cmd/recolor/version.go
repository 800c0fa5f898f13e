package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of recolor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("recolor version %s\n", strings.TrimSpace(recolor.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
