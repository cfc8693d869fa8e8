// Package main is the praxis server and operator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "praxis",
	Short: "Praxis site server",
	Long:  "Praxis serves the ROI calculator, demo area and contact intake, and stores leads for admin triage.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
