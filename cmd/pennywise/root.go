package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pennywise",
	Short: "Pennywise is a conversational expense-tracking assistant",
	Long:  `Pennywise ("Penny") records expenses, tracks a weekly budget, and answers spending questions through natural language.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
