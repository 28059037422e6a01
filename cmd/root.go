/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "swapcycle",
	Short: "SwapCycle item-swap marketplace backend",
	Long: `SwapCycle is the backend for a peer-to-peer item-swap marketplace:
users register, publish listings, propose swap offers on others'
listings, and listing owners accept, reject, or complete offers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
