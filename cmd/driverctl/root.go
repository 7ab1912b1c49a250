package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "driverctl",
	Short:         "Offline driver analysis for behavioral export data",
	Long:          "driverctl runs the conversion-driver analysis pipeline over a CSV export without a running server, and generates synthetic exports for testing.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDatagenCmd())
}
