/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/swapcycle/apiserver/config"
	"github.com/swapcycle/apiserver/internal/server"
	"github.com/swapcycle/apiserver/pkg/logger"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the SwapCycle backend server",
	Long: `Starts the SwapCycle backend server. Usage:

	swapcycle server
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		log, err := logger.New(cfg.Env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = log.Sync()
		}()

		srv, err := server.New(cmd.Context(), cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
			os.Exit(1)
		}
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
