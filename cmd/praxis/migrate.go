package main

import (
	"fmt"

	"github.com/AtRiskMedia/praxis/internal/application/startup"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long:  "Creates the contact_submissions and users tables and their indexes. Safe to run repeatedly.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	logger, err := startup.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	db, err := startup.OpenDatabase(cmd.Context(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewTableCreator().CreateSchema(cmd.Context(), db); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s)\n", db.Driver())
	return nil
}
