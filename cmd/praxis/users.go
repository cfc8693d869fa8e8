package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/application/startup"
	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/database"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
	userrepo "github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/user"
	"github.com/AtRiskMedia/praxis/pkg/config"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage sign-in accounts",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create a sign-in account",
	Long:  "Creates an account able to reach the demo area. Admin access also requires the email in ADMIN_EMAILS. The password is read from --password or the first line of stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersAdd,
}

var usersAddPassword string

func init() {
	usersAddCmd.Flags().StringVarP(&usersAddPassword, "password", "p", "", "Password (read from stdin when empty)")
	usersCmd.AddCommand(usersAddCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersAdd(cmd *cobra.Command, args []string) error {
	password := usersAddPassword
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("no password given: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

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

	auth := services.NewAuthService(logger, performance.NewTracker(nil), userrepo.NewSQLUserRepository(db, logger),
		user.NewAllowList(config.AdminEmails), config.JWTSecret, time.Hour)
	u, err := auth.CreateUser(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}

	role := "visitor"
	if auth.IsAdmin(u.Email) {
		role = "admin"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, %s)\n", u.Email, u.ID, role)
	return nil
}
