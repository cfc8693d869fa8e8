package main

import (
	"github.com/AtRiskMedia/praxis/internal/application/startup"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return startup.Initialize()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
