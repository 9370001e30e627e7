package main

import (
	"fmt"
	"strings"

	"github.com/mintaka-labs/pennywise"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pennywise",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pennywise version %s\n", strings.TrimSpace(pennywise.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
